package selector

// Binding decides who owns the selected id. It is fixed when the control is built.
type Binding interface {
	Value() string
	Set(id string)
	Controlled() bool
}

type controlled struct {
	get      func() string
	onChange func(string)
}

// Controlled leaves the value with the caller: get reads it, onChange asks for a change
func Controlled(get func() string, onChange func(string)) Binding {
	return &controlled{get: get, onChange: onChange}
}

func (b *controlled) Value() string    { return b.get() }
func (b *controlled) Set(id string)    { b.onChange(id) }
func (b *controlled) Controlled() bool { return true }

type uncontrolled struct {
	value string
}

// Uncontrolled keeps the value inside the control
func Uncontrolled(initial string) Binding {
	return &uncontrolled{value: initial}
}

func (b *uncontrolled) Value() string    { return b.value }
func (b *uncontrolled) Set(id string)    { b.value = id }
func (b *uncontrolled) Controlled() bool { return false }
