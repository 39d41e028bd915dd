package checkout

import (
	"context"

	"github.com/joescafe/storefront/models"
)

// OrderCreator is the persistence collaborator that turns a request into a
// stored order.
type OrderCreator interface {
	Create(ctx context.Context, req *OrderRequest) (*models.Order, error)
}

// ReceiptUploader hosts a payment-receipt image and returns its URL.
// Image compression happens before the bytes reach this interface.
type ReceiptUploader interface {
	Upload(ctx context.Context, image []byte, filename string) (string, error)
}

// PlaceOrder runs the two-step checkout: upload the receipt image first (if
// one was attached), then create the order with the resulting URL. The steps
// are strictly sequential; an upload failure stops everything so no order is
// ever created without its intended receipt reference. On failure the second
// return carries the classified user-facing notice.
func PlaceOrder(ctx context.Context, creator OrderCreator, uploader ReceiptUploader, req *OrderRequest, receiptImage []byte, receiptName string) (*models.Order, *Notice) {
	if len(receiptImage) > 0 {
		url, err := uploader.Upload(ctx, receiptImage, receiptName)
		if err != nil {
			return nil, &Notice{
				Kind:    NoticeUploadFailed,
				Message: "Upload failed: " + err.Error() + ". Please try again or continue without receipt.",
			}
		}
		req.ReceiptUrl = &url
	}

	order, err := creator.Create(ctx, req)
	if err != nil {
		notice := Classify(err)
		return nil, &notice
	}
	return order, nil
}
