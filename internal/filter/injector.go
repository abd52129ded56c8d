package filter

import (
	"fmt"
	"reflect"
	"sync"
)

// injectTag marks struct fields the StructInjector populates.
const injectTag = "inject"

// Injector supplies dependencies to filter instances.
type Injector interface {
	InjectMembers(target any) error
}

// InjectorFunc adapts a function to Injector.
type InjectorFunc func(target any) error

// InjectMembers implements Injector.
func (f InjectorFunc) InjectMembers(target any) error {
	return f(target)
}

// StructInjector fills exported struct fields tagged `inject:""` with
// registered values whose type is assignable to the field type.
type StructInjector struct {
	mu        sync.RWMutex
	providers []reflect.Value
}

// NewStructInjector creates an injector providing values.
func NewStructInjector(values ...any) *StructInjector {
	i := &StructInjector{}
	i.Provide(values...)
	return i
}

// Provide registers more values. Earlier registrations win when several
// values are assignable to the same field.
func (i *StructInjector) Provide(values ...any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, v := range values {
		i.providers = append(i.providers, reflect.ValueOf(v))
	}
}

// InjectMembers implements Injector. Targets that are not pointers to
// structs are left untouched.
func (i *StructInjector) InjectMembers(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	elem := v.Elem()
	typ := elem.Type()
	for f := 0; f < typ.NumField(); f++ {
		field := typ.Field(f)
		if _, ok := field.Tag.Lookup(injectTag); !ok {
			continue
		}
		if !field.IsExported() {
			return fmt.Errorf("inject %s.%s: field is not exported", typ.Name(), field.Name)
		}

		provided, ok := i.find(field.Type)
		if !ok {
			return fmt.Errorf("inject %s.%s: no provider for %s", typ.Name(), field.Name, field.Type)
		}
		elem.Field(f).Set(provided)
	}
	return nil
}

func (i *StructInjector) find(t reflect.Type) (reflect.Value, bool) {
	for _, p := range i.providers {
		if p.IsValid() && p.Type().AssignableTo(t) {
			return p, true
		}
	}
	return reflect.Value{}, false
}
