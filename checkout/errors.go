package checkout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCart is returned by BuildOrderRequest before any field checks; an
// empty cart is a distinct failure from a missing field.
var ErrEmptyCart = errors.New("cart is empty")

// ErrRateLimited is the sentinel the persistence collaborator returns when a
// customer is ordering too fast.
var ErrRateLimited = errors.New("rate limit exceeded, please wait before ordering again")

// StockError reports that a specific menu item ran out while the order was
// being created. Its message is shown to the customer largely verbatim.
type StockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, only %d left", e.ItemName, e.Requested, e.Available)
}

// ValidationError names the first missing or invalid checkout field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Notice kinds for user-facing checkout failures.
const (
	NoticeUploadFailed = "upload_failed"
	NoticeOutOfStock   = "out_of_stock"
	NoticeRateLimited  = "rate_limited"
	NoticeGeneric      = "generic"
)

// Notice is the classified, user-facing outcome of a failed checkout call.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Classify buckets a remote order-creation failure. Typed errors are checked
// first; the message patterns mirror how the storefront matched backend error
// strings before the sentinels existed.
func Classify(err error) Notice {
	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return Notice{Kind: NoticeOutOfStock, Message: stockErr.Error()}
	}
	if errors.Is(err, ErrRateLimited) {
		return Notice{Kind: NoticeRateLimited, Message: "Too many orders: Please wait 1 minute before placing another order."}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient stock") {
		return Notice{Kind: NoticeOutOfStock, Message: err.Error()}
	}
	if strings.Contains(msg, "rate limit") {
		return Notice{Kind: NoticeRateLimited, Message: "Too many orders: Please wait 1 minute before placing another order."}
	}
	return Notice{Kind: NoticeGeneric, Message: "Something went wrong while placing your order. Please try again."}
}
