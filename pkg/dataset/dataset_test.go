package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/widetable-labs/widetable/pkg/schema"
)

// buildShopGraph assembles the e-commerce fixture: Order item -> Order
// -> Customer with a back-link Customer -> Order ("First order"), and
// Order item -> Product.
func buildShopGraph(t *testing.T) (customer, order, orderItem, product *schema.Entity) {
	t.Helper()

	customer = schema.NewEntity(schema.EntitySpec{Name: "Customer", SchemaName: "e_dim"})
	order = schema.NewEntity(schema.EntitySpec{Name: "Order", SchemaName: "e_dim"})
	orderItem = schema.NewEntity(schema.EntitySpec{Name: "Order item", SchemaName: "e_dim"})
	product = schema.NewEntity(schema.EntitySpec{Name: "Product", SchemaName: "e_dim"})

	mustAttr := func(e *schema.Entity, spec schema.AttributeSpec) {
		t.Helper()
		_, err := e.AddAttribute(spec)
		require.NoError(t, err)
	}

	mustAttr(customer, schema.AttributeSpec{Name: "Customer ID", Type: schema.TypeID, HighCardinality: true})
	mustAttr(customer, schema.AttributeSpec{Name: "Age", Type: schema.TypeNumber})
	mustAttr(customer, schema.AttributeSpec{Name: "Email address", PersonalData: true})

	mustAttr(order, schema.AttributeSpec{Name: "Order ID", Type: schema.TypeID, HighCardinality: true})
	mustAttr(order, schema.AttributeSpec{Name: "Order date", Type: schema.TypeDate})
	mustAttr(order, schema.AttributeSpec{Name: "Status", Type: schema.TypeEnum})

	mustAttr(orderItem, schema.AttributeSpec{Name: "Order item ID", Type: schema.TypeID, HighCardinality: true})

	mustAttr(product, schema.AttributeSpec{Name: "Product ID", Type: schema.TypeID, HighCardinality: true})
	mustAttr(product, schema.AttributeSpec{Name: "Categories", Type: schema.TypeArray})

	mustLink := func(e *schema.Entity, target *schema.Entity, spec schema.LinkSpec) {
		t.Helper()
		_, err := e.LinkEntity(target, spec)
		require.NoError(t, err)
	}

	mustLink(order, customer, schema.LinkSpec{})
	mustLink(customer, order, schema.LinkSpec{FKColumn: "first_order_fk", Prefix: "First order"})
	mustLink(orderItem, order, schema.LinkSpec{})
	mustLink(orderItem, product, schema.LinkSpec{})

	return customer, order, orderItem, product
}

func attributeNames(res *Resolution) []string {
	names := make([]string, len(res.Attributes))
	for i, a := range res.Attributes {
		names[i] = a.Name
	}
	return names
}

func pathAliases(res *Resolution) []string {
	aliases := make([]string, len(res.Paths))
	for i, p := range res.Paths {
		aliases[i] = p.Alias()
	}
	return aliases
}

func TestResolve_DepthBoundWithoutInclude(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	// Order and Product are one link away, Customer is two and stays out.
	assert.Equal(t, []string{"Order", "Product"}, pathAliases(res))
	assert.Equal(t, []string{
		"Order item ID",
		"Order ID", "Order date", "Order status",
		"Product ID", "Product categories",
	}, attributeNames(res))
}

func TestResolve_IncludePathReinstatesBeyondDepth(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.IncludePath(PathToken{Target: "Order"}, PathToken{Target: "Customer"}))
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"Order", "Product", "Order Customer"}, pathAliases(res))
	assert.Contains(t, attributeNames(res), "Order customer age")
	// The included path does not reopen traversal beyond itself.
	assert.NotContains(t, pathAliases(res), "Order Customer First order")
}

func TestResolve_ExcludePathIsAbsolute(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", UnlimitedDepth)
	require.NoError(t, ds.ExcludePath(PathToken{Target: "Order"}))
	// Overrides targeting a sub-path beyond the exclusion change nothing.
	require.NoError(t, ds.IncludeAttributes(
		[]PathToken{{Target: "Order"}, {Target: "Customer"}}, "Age"))
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"Product"}, pathAliases(res))
	assert.Equal(t, []string{"Order item ID", "Product ID", "Product categories"},
		attributeNames(res))
}

func TestResolve_CyclicGraphTerminatesAtDepthBound(t *testing.T) {
	customer, _, _, _ := buildShopGraph(t)

	ds := New(customer, "Customers", 3)
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	// Customer -> Order -> Customer -> Order, then the bound cuts off.
	assert.Equal(t, []string{
		"First order",
		"First order Customer",
		"First order Customer First order",
	}, pathAliases(res))
}

func TestResolve_CyclicGraphTerminatesWithUnlimitedDepth(t *testing.T) {
	customer, _, _, _ := buildShopGraph(t)

	ds := New(customer, "Customers", UnlimitedDepth)
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	// Without a depth bound a path never repeats a link.
	assert.Equal(t, []string{"First order", "First order Customer"}, pathAliases(res))
}

func TestResolve_ExcludeAttributes(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.ExcludeAttributes([]PathToken{{Target: "Order"}}, "Status"))
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	names := attributeNames(res)
	assert.NotContains(t, names, "Order status")
	assert.Contains(t, names, "Order date")
}

func TestResolve_ExcludeAllAttributesKeepsJoin(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.ExcludeAttributes([]PathToken{{Target: "Order"}}))
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"Order", "Product"}, pathAliases(res))
	for _, name := range attributeNames(res) {
		assert.NotContains(t, []string{"Order ID", "Order date", "Order status"}, name)
	}
}

func TestResolve_IncludeAttributesIsExclusive(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.IncludePath(PathToken{Target: "Order"}, PathToken{Target: "Customer"}))
	require.NoError(t, ds.IncludeAttributes(
		[]PathToken{{Target: "Order"}, {Target: "Customer"}}, "Age"))
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	names := attributeNames(res)
	assert.Contains(t, names, "Order customer age")
	assert.NotContains(t, names, "Order customer ID")
	assert.NotContains(t, names, "Order customer email address")
}

func TestResolve_IncludeAttributesOverridesLinkAccessibility(t *testing.T) {
	customer, order, _, _ := buildShopGraph(t)
	_, err := customer.AddAttribute(schema.AttributeSpec{
		Name:                   "Order sequence",
		ExcludeFromEntityLinks: true,
	})
	require.NoError(t, err)

	ds := New(order, "Orders", UnlimitedDepth)
	require.NoError(t, ds.IncludeAttributes([]PathToken{{Target: "Customer"}}, "Order sequence"))
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	var found *ResolvedAttribute
	for i := range res.Attributes {
		if res.Attributes[i].Name == "Customer order sequence" {
			found = &res.Attributes[i]
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.Explicit)
}

func TestResolve_InaccessibleAttributeBlockedOnLinkedPaths(t *testing.T) {
	customer, order, _, _ := buildShopGraph(t)
	_, err := customer.AddAttribute(schema.AttributeSpec{
		Name:                   "Order sequence",
		ExcludeFromEntityLinks: true,
	})
	require.NoError(t, err)

	ds := New(order, "Orders", UnlimitedDepth)
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)
	assert.NotContains(t, attributeNames(res), "Customer order sequence")

	// Rooted at the owning entity, the attribute is available.
	ds2 := New(customer, "Customers", 0)
	require.NoError(t, ds2.Finalize())
	res2, err := ds2.Resolve()
	require.NoError(t, err)
	assert.Contains(t, attributeNames(res2), "Order sequence")
}

func TestResolve_AmbiguousAttributeName(t *testing.T) {
	hub := schema.NewEntity(schema.EntitySpec{Name: "Shipment", SchemaName: "e_dim"})
	address := schema.NewEntity(schema.EntitySpec{Name: "Address", SchemaName: "e_dim"})
	_, err := address.AddAttribute(schema.AttributeSpec{Name: "City"})
	require.NoError(t, err)

	// The prefixes differ only in case, so the lower-cased attribute
	// names collide.
	_, err = hub.LinkEntity(address, schema.LinkSpec{Prefix: "Billing", FKColumn: "billing_address_fk"})
	require.NoError(t, err)
	_, err = hub.LinkEntity(address, schema.LinkSpec{Prefix: "billing", FKColumn: "billing2_address_fk"})
	require.NoError(t, err)

	ds := New(hub, "Shipments", UnlimitedDepth)
	require.NoError(t, ds.Finalize())

	_, err = ds.Resolve()
	var ambiguous *AmbiguousNameError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "Billing city", ambiguous.Name)
	assert.NotEqual(t, ambiguous.First.Key(), ambiguous.Second.Key())
}

func TestResolve_Deterministic(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.IncludePath(PathToken{Target: "Order"}, PathToken{Target: "Customer"}))
	require.NoError(t, ds.Finalize())

	first, err := ds.Resolve()
	require.NoError(t, err)
	second, err := ds.Resolve()
	require.NoError(t, err)

	assert.Equal(t, attributeNames(first), attributeNames(second))
	assert.Equal(t, pathAliases(first), pathAliases(second))
}

func TestResolve_RequiresFinalize(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	_, err := ds.Resolve()
	var notFinalized *NotFinalizedError
	require.ErrorAs(t, err, &notFinalized)
}

func TestDataSet_MutationAfterFinalize(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	require.NoError(t, ds.Finalize())

	var frozen *FinalizedError

	_, err := ds.AddSimpleMetric(SimpleMetricSpec{Name: "Revenue", Aggregation: Sum})
	require.ErrorAs(t, err, &frozen)

	err = ds.ExcludePath(PathToken{Target: "Order"})
	require.ErrorAs(t, err, &frozen)

	err = ds.Finalize()
	require.ErrorAs(t, err, &frozen)
}

func TestDataSet_OverridePathsFailFast(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)

	err := ds.ExcludePath(PathToken{Target: "Warehouse"})
	var notFound *schema.LinkNotFoundError
	require.ErrorAs(t, err, &notFound)

	err = ds.IncludeAttributes([]PathToken{{Target: "Order"}}, "No such attribute")
	var attrNotFound *schema.AttributeNotFoundError
	require.ErrorAs(t, err, &attrNotFound)

	err = ds.ExcludePath()
	require.Error(t, err)
}

func TestDataSet_DuplicateMetric(t *testing.T) {
	_, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", 1)
	_, err := ds.AddSimpleMetric(SimpleMetricSpec{Name: "Revenue", Aggregation: Sum})
	require.NoError(t, err)

	var duplicate *DuplicateMetricError
	_, err = ds.AddSimpleMetric(SimpleMetricSpec{Name: "Revenue", Aggregation: Sum})
	require.ErrorAs(t, err, &duplicate)
	_, err = ds.AddComposedMetric(ComposedMetricSpec{Name: "Revenue", Formula: "[Revenue]"})
	require.ErrorAs(t, err, &duplicate)
}

func TestPath_Naming(t *testing.T) {
	customer, _, orderItem, _ := buildShopGraph(t)

	ds := New(orderItem, "Order items", UnlimitedDepth)
	require.NoError(t, ds.Finalize())

	res, err := ds.Resolve()
	require.NoError(t, err)

	var orderCustomer Path
	for _, p := range res.Paths {
		if p.Target() == customer {
			orderCustomer = p
		}
	}
	require.NotNil(t, orderCustomer)

	assert.Equal(t, "Order Customer", orderCustomer.Alias())
	assert.Equal(t, "Order > Customer", orderCustomer.String())

	age, err := customer.FindAttribute("Age")
	require.NoError(t, err)
	assert.Equal(t, "Order customer age", orderCustomer.AttributeName(age))
}
