package shopsync

import (
	"testing"
)

// The dependency ordering (users, then parent entities, then child
// entities) is an explicit stage list, so it can be checked here
// independent of the orchestration code.

func assertStageOrder(t *testing.T, names []string, before, after string) {
	t.Helper()
	bi, ai := -1, -1
	for i, n := range names {
		if n == before {
			bi = i
		}
		if n == after {
			ai = i
		}
	}
	if bi == -1 || ai == -1 {
		t.Fatalf("stages %q/%q not found in %v", before, after, names)
	}
	if bi >= ai {
		t.Fatalf("expected %q before %q in %v", before, after, names)
	}
}

func TestOrderSyncStages_DependencyOrder(t *testing.T) {
	names := stageNames((&orderSyncRun{}).stages())

	assertStageOrder(t, names, MetricsStageFetchSnapshot, MetricsStageExtractReferences)
	assertStageOrder(t, names, MetricsStageExtractReferences, MetricsStageApplyOrders)
	assertStageOrder(t, names, MetricsStageClassifyOrders, MetricsStageApplyOrders)
	// Orders must be durable before item reconciliation queries them.
	assertStageOrder(t, names, MetricsStageApplyOrders, MetricsStageApplyOrderItems)
}

func TestProductSyncStages_DependencyOrder(t *testing.T) {
	names := stageNames((&productSyncRun{}).stages())

	assertStageOrder(t, names, MetricsStageFetchSnapshot, MetricsStageExtractReferences)
	assertStageOrder(t, names, MetricsStageClassifyProducts, MetricsStageApplyProducts)
	// Master data (users, products) commits before dependent reviews.
	assertStageOrder(t, names, MetricsStageApplyProducts, MetricsStageApplyReviews)
}
