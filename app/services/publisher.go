package services

// Event names pushed to connected clients
const (
	EventNewOrder = "new_order"
)

// Publisher is the notification channel the order processor emits on.
// Delivery is best-effort fan-out to currently connected subscribers;
// a publish failure never affects the already-committed order.
type Publisher interface {
	Publish(event string, payload interface{})
}
