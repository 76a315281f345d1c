package component

// Script is tengo controller source to attach to an entity's body. The
// physics system compiles and attaches it when the body is instantiated.
type Script struct {
	Name   string
	Source []byte
}

var ScriptComponent = NewComponent[*Script]()
