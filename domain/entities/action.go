package entities

// Action identifies a lifecycle or execution event dispatched by the host
// to a plugin's main entry point.
type Action int

const (
	// ActionUnknown is any action name the plugin does not recognise.
	ActionUnknown Action = iota
	// ActionLoad is sent once after SetHost, before any other action.
	ActionLoad
	// ActionDescribe asks the plugin to declare its inputs and outputs.
	ActionDescribe
	// ActionCreateInstance is sent when the host creates an effect instance.
	ActionCreateInstance
	// ActionDestroyInstance is sent when the host destroys an effect instance.
	ActionDestroyInstance
	// ActionCook runs the effect for one time sample.
	ActionCook
)

// OpenFX action names.
const (
	ActionNameLoad            = "OfxActionLoad"
	ActionNameDescribe        = "OfxActionDescribe"
	ActionNameCreateInstance  = "OfxActionCreateInstance"
	ActionNameDestroyInstance = "OfxActionDestroyInstance"
	ActionNameCook            = "OfxMeshEffectActionCook"
)

var actionsByName = map[string]Action{
	ActionNameLoad:            ActionLoad,
	ActionNameDescribe:        ActionDescribe,
	ActionNameCreateInstance:  ActionCreateInstance,
	ActionNameDestroyInstance: ActionDestroyInstance,
	ActionNameCook:            ActionCook,

	"load":            ActionLoad,
	"describe":        ActionDescribe,
	"createInstance":  ActionCreateInstance,
	"destroyInstance": ActionDestroyInstance,
	"cook":            ActionCook,
}

// ParseAction maps an action name to its Action. Both the OpenFX names and
// their short forms are accepted. Unrecognised names yield ActionUnknown.
func ParseAction(name string) Action {
	if a, ok := actionsByName[name]; ok {
		return a
	}
	return ActionUnknown
}

// Actions returns every recognised action in lifecycle order.
func Actions() []Action {
	return []Action{ActionLoad, ActionDescribe, ActionCreateInstance, ActionCook, ActionDestroyInstance}
}

// String returns the OpenFX name of the action.
func (a Action) String() string {
	switch a {
	case ActionLoad:
		return ActionNameLoad
	case ActionDescribe:
		return ActionNameDescribe
	case ActionCreateInstance:
		return ActionNameCreateInstance
	case ActionDestroyInstance:
		return ActionNameDestroyInstance
	case ActionCook:
		return ActionNameCook
	default:
		return "unknown"
	}
}
