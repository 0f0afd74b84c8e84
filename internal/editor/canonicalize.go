package editor

import "github.com/HilaBluman/CEOS/internal/model"

// Canonicalize resolves ambiguous client-submitted action tags into the
// action that is actually applied and logged. The two ambiguous tags mean
// "this edit was either a plain line update or an update that swallowed an
// adjacent line". The tie is broken by comparing the server's
// actual line count against the count the client expected after its local
// edit: a longer actual buffer means the server still holds the line the
// client saw disappear, so the resolved action must also delete it.
//
// Canonicalize is pure; it is the only conflict-resolution policy in the
// system.
func Canonicalize(action model.Action, reportedLineCount, actualLineCount int) model.Action {
	switch action {
	case model.ActionDeleteSameLine, model.ActionDeletePrevLine:
		if actualLineCount > reportedLineCount {
			return model.ActionUpdateDeleteNext
		}
		return model.ActionUpdate
	default:
		return action
	}
}
