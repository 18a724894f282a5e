package shared

import "context"

type carrierContextKey struct{}

// Carrier identifies the authenticated carrier scoping every request.
type Carrier struct {
	ID   string
	Name string
}

// ContextWithCarrier stores the carrier in context.
func ContextWithCarrier(ctx context.Context, c Carrier) context.Context {
	return context.WithValue(ctx, carrierContextKey{}, c)
}

// CarrierFromContext extracts the carrier from context. The zero Carrier is
// returned when the request never passed the auth middleware.
func CarrierFromContext(ctx context.Context) Carrier {
	c, _ := ctx.Value(carrierContextKey{}).(Carrier)
	return c
}
