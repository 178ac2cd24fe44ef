package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/widetable-labs/widetable/pkg/formula"
)

func buildMetricFixture(t *testing.T) *DataSet {
	t.Helper()

	_, _, orderItem, _ := buildShopGraph(t)
	ds := New(orderItem, "Order items", 1)

	_, err := ds.AddSimpleMetric(SimpleMetricSpec{
		Name: "Product revenue", ColumnName: "product_revenue", Aggregation: Sum,
		NumberFormat: Currency,
	})
	require.NoError(t, err)
	_, err = ds.AddSimpleMetric(SimpleMetricSpec{
		Name: "Shipping revenue", ColumnName: "shipping_revenue", Aggregation: Sum,
	})
	require.NoError(t, err)
	_, err = ds.AddSimpleMetric(SimpleMetricSpec{
		Name: "# Orders", ColumnName: "order_fk", Aggregation: DistinctCount,
	})
	require.NoError(t, err)
	return ds
}

func TestResolveMetrics_TopologicalOrder(t *testing.T) {
	ds := buildMetricFixture(t)

	// AOV is added before the Revenue metric it references; resolution
	// reorders them.
	_, err := ds.AddComposedMetric(ComposedMetricSpec{
		Name: "AOV", Formula: "[Revenue] / [# Orders]",
	})
	require.NoError(t, err)
	_, err = ds.AddComposedMetric(ComposedMetricSpec{
		Name: "Revenue", Formula: "[Product revenue] + [Shipping revenue]",
	})
	require.NoError(t, err)
	require.NoError(t, ds.Finalize())

	res, err := ds.ResolveMetrics()
	require.NoError(t, err)

	names := make([]string, len(res.Order))
	positions := map[string]int{}
	for i, m := range res.Order {
		names[i] = m.MetricName()
		positions[m.MetricName()] = i
	}
	assert.Len(t, names, 5)
	assert.Less(t, positions["Product revenue"], positions["Revenue"])
	assert.Less(t, positions["Shipping revenue"], positions["Revenue"])
	assert.Less(t, positions["Revenue"], positions["AOV"])
	assert.Less(t, positions["# Orders"], positions["AOV"])

	assert.Contains(t, res.Exprs, "AOV")
	assert.Contains(t, res.Exprs, "Revenue")
	assert.Equal(t, []string{"Revenue", "# Orders"}, formula.MetricRefs(res.Exprs["AOV"]))
}

func TestResolveMetrics_UnknownReference(t *testing.T) {
	ds := buildMetricFixture(t)
	_, err := ds.AddComposedMetric(ComposedMetricSpec{
		Name: "Margin", Formula: "[Product revenue] - [Cost]",
	})
	require.NoError(t, err)
	require.NoError(t, ds.Finalize())

	_, err = ds.ResolveMetrics()
	var unknown *UnknownMetricError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Margin", unknown.Metric)
	assert.Equal(t, "Cost", unknown.Reference)
}

func TestResolveMetrics_SelfReference(t *testing.T) {
	ds := buildMetricFixture(t)
	_, err := ds.AddComposedMetric(ComposedMetricSpec{
		Name: "Runaway", Formula: "[Runaway] + 1",
	})
	require.NoError(t, err)
	require.NoError(t, ds.Finalize())

	_, err = ds.ResolveMetrics()
	var cyclic *CyclicMetricError
	require.ErrorAs(t, err, &cyclic)
	assert.Contains(t, cyclic.Cycle, "Runaway")
}

func TestResolveMetrics_MutualReference(t *testing.T) {
	ds := buildMetricFixture(t)
	_, err := ds.AddComposedMetric(ComposedMetricSpec{Name: "A", Formula: "[B] + 1"})
	require.NoError(t, err)
	_, err = ds.AddComposedMetric(ComposedMetricSpec{Name: "B", Formula: "[A] * 2"})
	require.NoError(t, err)
	require.NoError(t, ds.Finalize())

	_, err = ds.ResolveMetrics()
	var cyclic *CyclicMetricError
	require.ErrorAs(t, err, &cyclic)
	assert.NotEmpty(t, cyclic.Cycle)
}

func TestResolveMetrics_SyntaxError(t *testing.T) {
	ds := buildMetricFixture(t)
	_, err := ds.AddComposedMetric(ComposedMetricSpec{
		Name: "Broken", Formula: "[Product revenue] +",
	})
	require.NoError(t, err)
	require.NoError(t, ds.Finalize())

	_, err = ds.ResolveMetrics()
	var syntaxErr *formula.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestResolveMetrics_SimpleMetricsOnly(t *testing.T) {
	ds := buildMetricFixture(t)
	require.NoError(t, ds.Finalize())

	res, err := ds.ResolveMetrics()
	require.NoError(t, err)

	names := make([]string, len(res.Order))
	for i, m := range res.Order {
		names[i] = m.MetricName()
	}
	assert.Equal(t, []string{"Product revenue", "Shipping revenue", "# Orders"}, names)
	assert.Empty(t, res.Exprs)
}

func TestMetric_DisplayFormula(t *testing.T) {
	simple := &SimpleMetric{Name: "Revenue", ColumnName: "revenue", Aggregation: Sum}
	assert.Equal(t, "sum(revenue)", simple.DisplayFormula())

	composed := &ComposedMetric{Name: "AOV", Formula: " [Revenue] \n / [# Orders] "}
	assert.Equal(t, "[Revenue] / [# Orders]", composed.DisplayFormula())
}
