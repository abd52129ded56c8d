package main

import (
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/vyrodovalexey/avaweb/internal/controller"
)

// helloController greets.
type helloController struct{}

func (h *helloController) index(c *controller.Context) error {
	return c.Text(http.StatusOK, "hello")
}

func (h *helloController) show(c *controller.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
}

func (h *helloController) hi(c *controller.Context) error {
	name := c.Param("name")
	if name == "" {
		name = "stranger"
	}
	return c.Text(http.StatusOK, "hi "+name)
}

func newHelloType() *controller.Type {
	return controller.NewType("hello", func() controller.Controller { return &helloController{} }).
		Handle("index", controller.Bind((*helloController).index)).
		Handle("show", controller.Bind((*helloController).show)).
		Handle("hi", controller.Bind((*helloController).hi))
}

// greetingController renders greetings in the language bound by the route.
type greetingController struct{}

var greetings = map[string]string{
	"en": "Hello",
	"fr": "Bonjour",
	"de": "Hallo",
}

func (g *greetingController) index(c *controller.Context) error {
	langs := make([]string, 0, len(greetings))
	for l := range greetings {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return c.JSON(http.StatusOK, map[string][]string{"languages": langs})
}

func (g *greetingController) show(c *controller.Context) error {
	lang := c.Param("lang")
	if lang == "" {
		lang = "en"
	}
	word, ok := greetings[lang]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown language " + lang})
	}
	return c.JSON(http.StatusOK, map[string]string{"greeting": word + ", " + c.Param("id")})
}

func newGreetingType() *controller.Type {
	return controller.NewType("greeting", func() controller.Controller { return &greetingController{} }).
		Handle("index", controller.Bind((*greetingController).index)).
		Handle("show", controller.Bind((*greetingController).show))
}

// photoStore is shared by every photos controller instance.
type photoStore struct {
	mu     sync.RWMutex
	nextID int
	photos map[int]string
}

func newPhotoStore() *photoStore {
	return &photoStore{photos: make(map[int]string)}
}

// photosController is a RESTful resource over photoStore.
type photosController struct {
	store *photoStore
}

func (p *photosController) index(c *controller.Context) error {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	out := make(map[string]string, len(p.store.photos))
	for id, title := range p.store.photos {
		out[strconv.Itoa(id)] = title
	}
	return c.JSON(http.StatusOK, out)
}

func (p *photosController) newForm(c *controller.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"form": "new photo"})
}

func (p *photosController) create(c *controller.Context) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	p.store.nextID++
	id := p.store.nextID
	p.store.photos[id] = c.Param("title")
	return c.JSON(http.StatusCreated, map[string]int{"id": id})
}

func (p *photosController) show(c *controller.Context) error {
	id, ok := p.lookup(c)
	if !ok {
		return c.Status(http.StatusNotFound)
	}

	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	return c.JSON(http.StatusOK, map[string]string{"id": strconv.Itoa(id), "title": p.store.photos[id]})
}

func (p *photosController) editForm(c *controller.Context) error {
	if _, ok := p.lookup(c); !ok {
		return c.Status(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, map[string]string{"form": "edit photo " + c.ID})
}

func (p *photosController) update(c *controller.Context) error {
	id, ok := p.lookup(c)
	if !ok {
		return c.Status(http.StatusNotFound)
	}

	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	p.store.photos[id] = c.Param("title")
	return c.Status(http.StatusNoContent)
}

func (p *photosController) destroy(c *controller.Context) error {
	id, ok := p.lookup(c)
	if !ok {
		return c.Status(http.StatusNotFound)
	}

	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	delete(p.store.photos, id)
	return c.Status(http.StatusNoContent)
}

func (p *photosController) lookup(c *controller.Context) (int, bool) {
	id, err := strconv.Atoi(c.ID)
	if err != nil {
		return 0, false
	}

	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	_, ok := p.store.photos[id]
	return id, ok
}

func newPhotosType(store *photoStore) *controller.Type {
	return controller.NewType("photos", func() controller.Controller { return &photosController{store: store} },
		controller.Restful()).
		Handle("index", controller.Bind((*photosController).index)).
		Handle("new_form", controller.Bind((*photosController).newForm)).
		Handle("create", controller.Bind((*photosController).create)).
		Handle("show", controller.Bind((*photosController).show)).
		Handle("edit_form", controller.Bind((*photosController).editForm)).
		Handle("update", controller.Bind((*photosController).update)).
		Handle("destroy", controller.Bind((*photosController).destroy))
}

// usersController lives in the admin package: /admin/users.
type usersController struct{}

func (u *usersController) index(c *controller.Context) error {
	return c.JSON(http.StatusOK, []string{"alice", "bob"})
}

func newAdminUsersType() *controller.Type {
	return controller.NewType("users", func() controller.Controller { return &usersController{} },
		controller.InPackage("admin")).
		Handle("index", controller.Bind((*usersController).index))
}

// demoTypes are the controllers served by the demo application.
type demoTypes struct {
	hello    *controller.Type
	greeting *controller.Type
	photos   *controller.Type
	users    *controller.Type
}

func newDemoTypes() *demoTypes {
	return &demoTypes{
		hello:    newHelloType(),
		greeting: newGreetingType(),
		photos:   newPhotosType(newPhotoStore()),
		users:    newAdminUsersType(),
	}
}

func (d *demoTypes) all() []*controller.Type {
	return []*controller.Type{d.hello, d.greeting, d.photos, d.users}
}
