// Package editor holds one live editing session: the project being edited
// plus the selection, selected effect layer, clipboard, and playhead.
//
// Store implements the mutation contract commands call, delegating to clipops
// and effects. Context is the read side commands consume. Mutations are
// expected to arrive from the command manager's single worker; View lets other
// goroutines read the project under the store's lock.
package editor
