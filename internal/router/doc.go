// Package router maps request paths to controller actions.
//
// Routes are built from "/"-delimited templates. Each token is either
// literal text or a placeholder:
//
//   - {controller} infers the controller type from the path token
//   - {action} binds the action name
//   - {id} binds the id
//   - any other {name} binds a named user segment
//
// Every template segment is mandatory, so a route only applies to paths
// with exactly as many tokens as it has segments. Routes are tried in the
// order they were added and the first one that matches, accepts the HTTP
// method and resolves its action wins; more specific templates belong
// first. When no configured route applies, the convention route
// /[package/]controller[/action[/id]] is used, with the usual resource
// mapping for RESTful controllers.
//
// # Usage
//
//	rt := router.New(catalog, router.WithReloader(reloader))
//	err := rt.Add(
//	    router.NewRoute("/greeting/{id}").To(greetings).Action("show"),
//	    router.NewRoute("/{controller}/{action}/{id}"),
//	)
//
//	out, err := rt.Match(ctx, "/greeting/42", http.MethodGet)
//
// Matching is side-effect free: every call returns a fresh Outcome and the
// configured routes are never modified, so a Router is safe for concurrent
// use once configured.
package router
