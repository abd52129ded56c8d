package controller

// Factory creates controller instances by class name.
type Factory interface {
	New(className string) (Controller, error)
}

// LocatorFactory creates instances of types found through a Locator, so a
// type replaced in the locator is picked up by the next call.
type LocatorFactory struct {
	locator Locator
}

// NewFactory creates a factory backed by locator.
func NewFactory(locator Locator) *LocatorFactory {
	return &LocatorFactory{locator: locator}
}

// New implements Factory.
func (f *LocatorFactory) New(className string) (Controller, error) {
	t, err := f.locator.Load(className)
	if err != nil {
		return nil, err
	}
	return t.Instantiate()
}
