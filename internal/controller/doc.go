// Package controller models controller types, their action tables, and
// the collaborators that locate, create and reload them.
//
// A Type is the framework's notion of a controller class. It is built at
// bootstrap with a constructor and an explicit action table:
//
//	hello := controller.NewType("hello", func() controller.Controller {
//	    return &HelloController{}
//	}).Handle("show", controller.Bind(func(c *HelloController, ctx *controller.Context) error {
//	    return ctx.Text(http.StatusOK, "hello "+ctx.ID)
//	}))
//
// Action names are normalized before lookup, so "show_user", "show-user"
// and "showUser" all resolve to the same handler.
//
// A Catalog implements Locator: it maps path tokens to class names
// ("/admin/user_profiles" → "admin.UserProfilesController") and class
// names to types. Reloader strategies decide which instance serves a
// matched request: StaticReloader caches one per class, DevReloader
// resolves afresh on every match.
package controller
