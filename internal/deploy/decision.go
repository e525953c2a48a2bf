package deploy

import (
	"io/fs"
	"os"
)

// Verdict is the outcome of the copy policy for one file.
type Verdict string

const (
	VerdictCopy Verdict = "copy"
	VerdictSkip Verdict = "skip"
)

// Reason records which rule of the copy policy produced a verdict.
type Reason string

const (
	ReasonForced     Reason = "forced"
	ReasonMissing    Reason = "missing"
	ReasonUnreadable Reason = "unreadable"
	ReasonSize       Reason = "size"
	ReasonNewer      Reason = "newer"
	ReasonUpToDate   Reason = "up-to-date"
)

// CopyDecision is the verdict for one source file.
type CopyDecision struct {
	// Path is relative to the source root, slash-separated.
	Path    string  `json:"path"`
	Verdict Verdict `json:"verdict"`
	Reason  Reason  `json:"reason"`
}

// Decide applies the copy policy to a source file and the result of stat'ing
// its destination counterpart. The first matching rule wins:
//
//  1. force: copy
//  2. destination does not exist: copy
//  3. destination could not be stat'ed: copy
//  4. sizes differ: copy
//  5. source modification time strictly after destination's: copy
//  6. otherwise: skip
//
// A destination with a newer or equal mtime and the same size is skipped.
func Decide(force bool, src, dst fs.FileInfo, dstErr error) (Verdict, Reason) {
	switch {
	case force:
		return VerdictCopy, ReasonForced
	case os.IsNotExist(dstErr), dstErr == nil && dst == nil:
		return VerdictCopy, ReasonMissing
	case dstErr != nil:
		return VerdictCopy, ReasonUnreadable
	case src.Size() != dst.Size():
		return VerdictCopy, ReasonSize
	case src.ModTime().After(dst.ModTime()):
		return VerdictCopy, ReasonNewer
	default:
		return VerdictSkip, ReasonUpToDate
	}
}
