package table

// Middleware wraps the handling of one table event.
type Middleware interface {
	// Handle processes the event and optionally calls next.
	// Return an error to stop the chain and report an error.
	// Return nil without calling next to drop the event silently.
	Handle(ctx *Ctx, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx *Ctx, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *Ctx, next func() error) error {
	return f(ctx, next)
}

// ComposeMiddleware builds a handler chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(ctx *Ctx, mw []Middleware, handler func() error) error {
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, next)
		}
	}
	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		return ComposeMiddleware(ctx, middleware, next)
	})
}

// Skip bypasses mw when condition holds.
func Skip(condition func(ctx *Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		if condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// Only runs mw when condition holds and passes straight through otherwise.
func Only(condition func(ctx *Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		if !condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}
