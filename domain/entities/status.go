package entities

import "fmt"

// Status is the result code returned by every suite call and by a plugin's
// main entry point. Values match the OpenFX ABI.
type Status int

const (
	// StatusOK indicates the call succeeded.
	StatusOK Status = 0
	// StatusFailed indicates the call failed in some unspecified manner.
	StatusFailed Status = 1
	// StatusErrFatal indicates an unrecoverable error; the host should stop using the plugin.
	StatusErrFatal Status = 2
	// StatusErrUnknown indicates an unclassified error.
	StatusErrUnknown Status = 3
	// StatusErrMissingHostFeature indicates the host lacks a feature the plugin requires.
	StatusErrMissingHostFeature Status = 4
	// StatusErrUnsupported indicates an unsupported operation.
	StatusErrUnsupported Status = 5
	// StatusErrExists indicates the object already exists.
	StatusErrExists Status = 6
	// StatusErrFormat indicates a format error.
	StatusErrFormat Status = 7
	// StatusErrMemory indicates a memory allocation failure.
	StatusErrMemory Status = 8
	// StatusErrBadHandle indicates an invalid handle was passed.
	StatusErrBadHandle Status = 9
	// StatusErrBadIndex indicates an index was out of range.
	StatusErrBadIndex Status = 10
	// StatusErrValue indicates an illegal value.
	StatusErrValue Status = 11
	// StatusReplyYes is a positive reply.
	StatusReplyYes Status = 12
	// StatusReplyNo is a negative reply.
	StatusReplyNo Status = 13
	// StatusReplyDefault tells the host the action was not handled and the
	// default behaviour applies. It is not an error.
	StatusReplyDefault Status = 14
)

var statusNames = map[Status]string{
	StatusOK:                    "kOfxStatOK",
	StatusFailed:                "kOfxStatFailed",
	StatusErrFatal:              "kOfxStatErrFatal",
	StatusErrUnknown:            "kOfxStatErrUnknown",
	StatusErrMissingHostFeature: "kOfxStatErrMissingHostFeature",
	StatusErrUnsupported:        "kOfxStatErrUnsupported",
	StatusErrExists:             "kOfxStatErrExists",
	StatusErrFormat:             "kOfxStatErrFormat",
	StatusErrMemory:             "kOfxStatErrMemory",
	StatusErrBadHandle:          "kOfxStatErrBadHandle",
	StatusErrBadIndex:           "kOfxStatErrBadIndex",
	StatusErrValue:              "kOfxStatErrValue",
	StatusReplyYes:              "kOfxStatReplyYes",
	StatusReplyNo:               "kOfxStatReplyNo",
	StatusReplyDefault:          "kOfxStatReplyDefault",
}

// String returns the OpenFX constant name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("kOfxStat(%d)", int(s))
}

// IsError reports whether the status denotes a failure.
// Replies (yes, no, default) are not errors.
func (s Status) IsError() bool {
	return s >= StatusFailed && s <= StatusErrValue
}
