// Package chattypes defines the rendering surface contract for chatllm.
package chattypes

// Surface is the rendering surface a chat turn writes to. The terminal shell
// and the browser server each provide one. Input and list selection are owned
// by the surface's own loop, which calls into the chat service.
type Surface interface {
	// RenderMessage displays a complete message, including a thinking panel
	// when the content carries a reasoning trace.
	RenderMessage(msg Message)

	// BeginStream starts incremental display of a message authored by role.
	BeginStream(role Role)

	// WriteFragment forwards one streamed fragment.
	WriteFragment(fragment string)

	// EndStream finishes incremental display.
	EndStream()

	// ShowStatus displays transient status text until ClearStatus is called.
	ShowStatus(text string)

	// ClearStatus removes the transient status text.
	ClearStatus()

	// ShowError displays an error to the user.
	ShowError(text string)
}
