package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"

	"eatery/internal/cart"
	"eatery/internal/llm"
	"eatery/internal/menu"
	"eatery/internal/order"
)

type CartService interface {
	Add(ctx context.Context, sessionID string, menuID int64, quantity int, notes *string) (*cart.Line, error)
	View(ctx context.Context, sessionID string) (*cart.View, error)
	Update(ctx context.Context, sessionID string, id int64, upd cart.Update) (*cart.Line, error)
	Remove(ctx context.Context, sessionID string, id int64) error
	RemoveByMenuIDs(ctx context.Context, sessionID string, menuIDs []int64) (int, error)
}

type OrderService interface {
	Checkout(ctx context.Context, sessionID string, in order.CheckoutInput) (*order.Order, error)
	GetByNumber(ctx context.Context, number string) (*order.Order, error)
}

// FunctionResult is the outcome of one function call. Response always has a
// boolean "success"; failures carry "error" with a human-readable message.
type FunctionResult struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
	Kind     ErrorKind      `json:"-"`
}

func (r FunctionResult) Success() bool {
	ok, _ := r.Response["success"].(bool)
	return ok
}

// Part is the functionResponse part sent back to the model.
func (r FunctionResult) Part() llm.Part {
	return llm.Part{FunctionResponse: &llm.FunctionResponse{Name: r.Name, Response: r.Response}}
}

func succeeded(name string, payload map[string]any) FunctionResult {
	resp := map[string]any{"success": true}
	for k, v := range payload {
		resp[k] = v
	}
	return FunctionResult{Name: name, Response: resp}
}

func failed(name string, kind ErrorKind, msg string) FunctionResult {
	return FunctionResult{
		Name:     name,
		Response: map[string]any{"success": false, "error": msg},
		Kind:     kind,
	}
}

type handlerFunc func(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error)

// Dispatcher executes model function calls against the cart and order
// services. It never returns an error: every failure becomes a result.
type Dispatcher struct {
	carts    CartService
	orders   OrderService
	handlers map[string]handlerFunc
}

func NewDispatcher(carts CartService, orders OrderService) *Dispatcher {
	d := &Dispatcher{carts: carts, orders: orders}
	d.handlers = map[string]handlerFunc{
		ToolAddToCart:              d.addToCart,
		ToolViewCart:               d.viewCart,
		ToolRemoveMultipleFromCart: d.removeMultiple,
		ToolUpdateCartItem:         d.updateCartItem,
		ToolRemoveFromCart:         d.removeFromCart,
		ToolCheckout:               d.checkout,
		ToolGetOrderStatus:         d.getOrderStatus,
	}
	return d
}

// Handles reports whether name has a handler.
func (d *Dispatcher) Handles(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

func (d *Dispatcher) Execute(ctx context.Context, call llm.FunctionCall, sessionID string) (result FunctionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DISPATCH] %s panicked: %v", call.Name, r)
			result = failed(call.Name, KindInternal, fmt.Sprintf("internal error: %v", r))
		}
	}()

	h, ok := d.handlers[call.Name]
	if !ok {
		return failed(call.Name, KindUnknownFunction, "Unknown function: "+call.Name)
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	payload, err := h(ctx, args, sessionID)
	if err != nil {
		var de *DispatchError
		if errors.As(err, &de) {
			return failed(call.Name, de.Kind, de.Message)
		}
		log.Printf("[DISPATCH] %s failed: %v", call.Name, err)
		return failed(call.Name, KindInternal, err.Error())
	}

	log.Printf("[DISPATCH] %s ok session=%s", call.Name, sessionID)
	return succeeded(call.Name, payload)
}

// translate maps service errors onto the messages the model sees.
func translate(err error) error {
	switch {
	case errors.Is(err, menu.ErrNotFound):
		return dispatchErr(KindNotFound, "Menu not found")
	case errors.Is(err, cart.ErrMenuUnavailable):
		return dispatchErr(KindUnavailable, "Menu is not available")
	case errors.Is(err, cart.ErrNotFound):
		return dispatchErr(KindNotFound, "Cart item not found")
	case errors.Is(err, cart.ErrInvalidQuantity):
		return dispatchErr(KindInvalidArgument, "quantity must be at least 1")
	case errors.Is(err, cart.ErrNoMenuIDs):
		return dispatchErr(KindInvalidArgument, "No menu_ids provided")
	case errors.Is(err, order.ErrCartEmpty):
		return dispatchErr(KindInvalidState, "Cart is empty")
	case errors.Is(err, order.ErrNotFound):
		return dispatchErr(KindNotFound, "Order not found")
	}
	return err
}

// --------------------------------------------------
// Cart
// --------------------------------------------------

func (d *Dispatcher) addToCart(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	menuID, err := requiredIntArg(args, "menu_id")
	if err != nil {
		return nil, err
	}
	qty, present, err := intArg(args, "quantity")
	if err != nil {
		return nil, err
	}
	if !present {
		qty = 1
	}
	notes, err := stringArg(args, "notes")
	if err != nil {
		return nil, err
	}

	line, err := d.carts.Add(ctx, sessionID, menuID, int(qty), notes)
	if err != nil {
		return nil, translate(err)
	}

	return map[string]any{
		"message":      line.MenuName + " added to cart",
		"cart_item_id": line.ID,
		"quantity":     line.Quantity,
	}, nil
}

func (d *Dispatcher) viewCart(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	view, err := d.carts.View(ctx, sessionID)
	if err != nil {
		return nil, translate(err)
	}

	items := make([]map[string]any, 0, len(view.Lines))
	for _, l := range view.Lines {
		items = append(items, map[string]any{
			"cart_item_id": l.ID,
			"menu_id":      l.MenuID,
			"menu_name":    l.MenuName,
			"quantity":     l.Quantity,
			"price":        l.UnitPrice,
			"subtotal":     cart.Round2(l.Subtotal()),
			"notes":        l.Notes,
		})
	}

	return map[string]any{
		"items":          items,
		"total_items":    view.Summary.TotalItems,
		"total_quantity": view.Summary.TotalQuantity,
		"subtotal":       view.Summary.Subtotal,
		"tax":            view.Summary.Tax,
		"total":          view.Summary.Total,
	}, nil
}

func (d *Dispatcher) removeMultiple(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	ids, err := intSliceArg(args, "menu_ids")
	if err != nil {
		return nil, err
	}

	removed, err := d.carts.RemoveByMenuIDs(ctx, sessionID, ids)
	if err != nil {
		return nil, translate(err)
	}

	return map[string]any{
		"message":       fmt.Sprintf("Removed %d item(s) from cart", removed),
		"items_removed": removed,
	}, nil
}

func (d *Dispatcher) updateCartItem(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	id, err := requiredIntArg(args, "cart_item_id")
	if err != nil {
		return nil, err
	}

	var upd cart.Update
	qty, present, err := intArg(args, "quantity")
	if err != nil {
		return nil, err
	}
	if present {
		q := int(qty)
		upd.Quantity = &q
	}
	if upd.Notes, err = stringArg(args, "notes"); err != nil {
		return nil, err
	}

	line, err := d.carts.Update(ctx, sessionID, id, upd)
	if err != nil {
		return nil, translate(err)
	}

	return map[string]any{
		"message": "Cart item updated",
		"cart_item": map[string]any{
			"cart_item_id": line.ID,
			"menu_name":    line.MenuName,
			"quantity":     line.Quantity,
			"notes":        line.Notes,
		},
	}, nil
}

func (d *Dispatcher) removeFromCart(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	id, err := requiredIntArg(args, "cart_item_id")
	if err != nil {
		return nil, err
	}

	if err := d.carts.Remove(ctx, sessionID, id); err != nil {
		return nil, translate(err)
	}

	return map[string]any{"message": "Item removed from cart"}, nil
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

func (d *Dispatcher) checkout(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	name, err := requiredStringArg(args, "customer_name")
	if err != nil {
		return nil, err
	}

	in := order.CheckoutInput{CustomerName: &name}
	if in.CustomerPhone, err = stringArg(args, "customer_phone"); err != nil {
		return nil, err
	}
	if in.TableNumber, err = stringArg(args, "table_number"); err != nil {
		return nil, err
	}
	if in.Notes, err = stringArg(args, "notes"); err != nil {
		return nil, err
	}

	o, err := d.orders.Checkout(ctx, sessionID, in)
	if err != nil {
		return nil, translate(err)
	}

	return map[string]any{
		"message":      "Order created successfully",
		"order_number": o.OrderNumber,
		"total":        o.Total,
		"status":       string(o.Status),
	}, nil
}

func (d *Dispatcher) getOrderStatus(ctx context.Context, args map[string]any, sessionID string) (map[string]any, error) {
	number, err := requiredStringArg(args, "order_number")
	if err != nil {
		return nil, err
	}

	o, err := d.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, translate(err)
	}

	return map[string]any{
		"order": map[string]any{
			"order_number":  o.OrderNumber,
			"status":        string(o.Status),
			"customer_name": o.CustomerName,
			"total":         o.Total,
			"items_count":   len(o.Items),
			"created_at":    o.CreatedAt.Format("2006-01-02 15:04:05"),
		},
	}, nil
}
