package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/ronitchordiya/Flint-and-Flour/circuitbreaker"
)

// Razorpay creates gateway orders paid by the customer's client and
// verifies the signed confirmation callback.
type Razorpay struct {
	client         *razorpay.Client
	keyID          string
	keySecret      string
	circuitBreaker *circuitbreaker.CircuitBreaker
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{
		client:         razorpay.NewClient(keyID, keySecret),
		keyID:          keyID,
		keySecret:      keySecret,
		circuitBreaker: circuitbreaker.New("razorpay", 5, 30*time.Second),
	}
}

func (r *Razorpay) CreateOrder(ctx context.Context, p OrderParams) (*OrderCreated, error) {
	data := map[string]interface{}{
		"amount":   int64(math.Round(p.Amount * 100)),
		"currency": p.Currency,
		"receipt":  p.TransactionID,
	}
	if len(p.Notes) > 0 {
		data["notes"] = p.Notes
	}

	var body map[string]interface{}
	err := r.circuitBreaker.Execute(ctx, func() error {
		var err error
		body, err = r.client.Order.Create(data, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	return &OrderCreated{
		OrderID: orderID,
		KeyID:   r.keyID,
	}, nil
}

// VerifySignature checks the callback signature: HMAC-SHA256 over
// "{orderID}|{paymentID}" with the key secret, hex encoded, compared in
// constant time.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
