package main

import (
	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/filter"
	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// adminAuditFilter logs every access to the admin controllers. Its
// dependencies are injected on the first request.
type adminAuditFilter struct {
	filter.Base

	Logger observability.Logger `inject:""`
}

// Before logs the access.
func (f *adminAuditFilter) Before(c *controller.Context) error {
	if f.Logger == nil {
		return nil
	}
	f.Logger.WithContext(c.Context()).Info("admin access",
		observability.String("controller", c.Type.ClassName()),
		observability.String("action", c.Action),
		observability.String("remote_addr", c.Request.RemoteAddr),
	)
	return nil
}
