package assistant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogNames(t *testing.T) {
	tools := Catalog()
	require.Len(t, tools, 1)

	var names []string
	for _, fd := range tools[0].FunctionDeclarations {
		names = append(names, fd.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolAddToCart,
		ToolViewCart,
		ToolRemoveMultipleFromCart,
		ToolUpdateCartItem,
		ToolRemoveFromCart,
		ToolCheckout,
		ToolGetOrderStatus,
	}, names)
}

func TestEveryCatalogFunctionIsHandled(t *testing.T) {
	d := NewDispatcher(nil, nil)
	for _, fd := range Catalog()[0].FunctionDeclarations {
		assert.True(t, d.Handles(fd.Name), fd.Name)
	}
	assert.False(t, d.Handles("make_coffee"))
}

func TestCatalogRequiredParameters(t *testing.T) {
	required := map[string][]string{}
	for _, fd := range Catalog()[0].FunctionDeclarations {
		if fd.Parameters != nil {
			required[fd.Name] = fd.Parameters.Required
			for _, r := range fd.Parameters.Required {
				assert.Contains(t, fd.Parameters.Properties, r, "%s requires undeclared %s", fd.Name, r)
			}
		}
	}

	assert.Equal(t, []string{"menu_id"}, required[ToolAddToCart])
	assert.Equal(t, []string{"menu_ids"}, required[ToolRemoveMultipleFromCart])
	assert.Equal(t, []string{"cart_item_id"}, required[ToolUpdateCartItem])
	assert.Equal(t, []string{"cart_item_id"}, required[ToolRemoveFromCart])
	assert.Equal(t, []string{"customer_name"}, required[ToolCheckout])
	assert.Equal(t, []string{"order_number"}, required[ToolGetOrderStatus])
	assert.NotContains(t, required, ToolViewCart)
}

func TestCatalogWireFormat(t *testing.T) {
	raw, err := json.Marshal(Catalog())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"function_declarations"`)
}
