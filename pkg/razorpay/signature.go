package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// PaymentSignature computes the hex-encoded HMAC-SHA256 of
// "<gatewayOrderID>|<gatewayPaymentID>" under the key secret. This is the
// value the gateway sends back in its payment callback.
func PaymentSignature(keySecret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature reports whether the provided signature matches the
// expected HMAC for the order/payment pair. Comparison is constant time.
func VerifyPaymentSignature(keySecret, gatewayOrderID, gatewayPaymentID, provided string) bool {
	expected := PaymentSignature(keySecret, gatewayOrderID, gatewayPaymentID)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
