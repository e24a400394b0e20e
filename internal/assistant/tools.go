package assistant

import "eatery/internal/llm"

// Function names offered to the model.
const (
	ToolAddToCart              = "add_to_cart"
	ToolViewCart               = "view_cart"
	ToolRemoveMultipleFromCart = "remove_multiple_from_cart"
	ToolUpdateCartItem         = "update_cart_item"
	ToolRemoveFromCart         = "remove_from_cart"
	ToolCheckout               = "checkout"
	ToolGetOrderStatus         = "get_order_status"
)

func str(desc string) *llm.Schema {
	return &llm.Schema{Type: "string", Description: desc}
}

func integer(desc string) *llm.Schema {
	return &llm.Schema{Type: "integer", Description: desc}
}

var catalog = []llm.Tool{{
	FunctionDeclarations: []llm.FunctionDeclaration{
		{
			Name:        ToolAddToCart,
			Description: "Add a menu item to the guest's cart. Use when the guest wants to order or add a dish.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"menu_id":  integer("The numeric ID of the menu item, taken from the menu information"),
					"quantity": integer("How many portions to add. Defaults to 1"),
					"notes":    str("Special requests for the kitchen, e.g. less spicy or no onions"),
				},
				Required: []string{"menu_id"},
			},
		},
		{
			Name:        ToolViewCart,
			Description: "Show every item currently in the guest's cart with the subtotal, tax and total.",
		},
		{
			Name:        ToolRemoveMultipleFromCart,
			Description: "Remove several dishes from the cart at once, identified by their menu IDs.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"menu_ids": {
						Type:        "array",
						Description: "Menu IDs of the dishes to remove",
						Items:       &llm.Schema{Type: "integer"},
					},
				},
				Required: []string{"menu_ids"},
			},
		},
		{
			Name:        ToolUpdateCartItem,
			Description: "Change the quantity or notes of one cart item. Use the cart item ID returned by view_cart.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"cart_item_id": integer("The cart item ID from view_cart"),
					"quantity":     integer("The new quantity, at least 1"),
					"notes":        str("New special requests for the kitchen"),
				},
				Required: []string{"cart_item_id"},
			},
		},
		{
			Name:        ToolRemoveFromCart,
			Description: "Remove one item from the cart. Use the cart item ID returned by view_cart.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"cart_item_id": integer("The cart item ID from view_cart"),
				},
				Required: []string{"cart_item_id"},
			},
		},
		{
			Name:        ToolCheckout,
			Description: "Place the order for everything in the cart. Only call after the guest confirms and gives their name.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"customer_name":  str("The guest's name"),
					"customer_phone": str("The guest's phone number"),
					"table_number":   str("The table the guest is sitting at"),
					"notes":          str("Notes for the whole order"),
				},
				Required: []string{"customer_name"},
			},
		},
		{
			Name:        ToolGetOrderStatus,
			Description: "Look up an existing order by its order number, e.g. ORD-20250101-ABC123.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"order_number": str("The order number given at checkout"),
				},
				Required: []string{"order_number"},
			},
		},
	},
}}

// Catalog returns the function declarations sent with the first request of
// every turn.
func Catalog() []llm.Tool {
	return catalog
}
