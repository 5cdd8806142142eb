// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
)

func main() {
	fmt.Println("🛒 go-shopsync - E-Commerce Snapshot Reconciliation")
	fmt.Println("===================================================")
	fmt.Println()
	fmt.Println("go-shopsync reconciles order and product snapshots from an external API")
	fmt.Println("into PostgreSQL with idempotent, chunked create/update operations and")
	fmt.Println("referential-integrity self-healing.")
	fmt.Println()

	fmt.Println("📚 Available Examples:")
	fmt.Println()
	fmt.Println("1. ⏱️  Sync Daemon (examples/syncd/)")
	fmt.Println("   Scheduled order/product reconciliation with operational HTTP endpoints")
	fmt.Println("   Features: interval scheduler, run lock, Prometheus metrics, manual triggers")
	fmt.Println("   Run: cd examples/syncd && go run .")
	fmt.Println()
}
