package liveness

import (
	"net/http"

	"github.com/agentstation/bangmap/pkg/bangs"
)

// Synthetic status codes written by the checker.
const (
	// StatusSkipped marks a bang that was deliberately not probed.
	StatusSkipped = 0
	// StatusFetchError marks a probe that failed before any response arrived.
	StatusFetchError = 900
)

// SkippedText is the status text of a skipped bang.
const SkippedText = "skipped"

// Class is a report section a status belongs to.
type Class string

// Status classes.
const (
	ClassMissing     Class = "404: Missing"
	ClassFetchError  Class = "900: Fetch error"
	ClassSkipped     Class = "000: Skipped"
	ClassSuccess     Class = "2xx: Success"
	ClassRedirect    Class = "3xx: Redirect"
	ClassClientError Class = "4xx: Client Error"
	ClassServerError Class = "5xx: Server Error"
	ClassOther       Class = "???: ETC"
)

// ReportOrder is the section order of the report. ClassOther is counted but
// not listed.
var ReportOrder = []Class{
	ClassMissing,
	ClassFetchError,
	ClassClientError,
	ClassServerError,
	ClassRedirect,
	ClassSuccess,
	ClassSkipped,
}

// Classes lists every class, ReportOrder followed by ClassOther.
func Classes() []Class {
	return append(append([]Class(nil), ReportOrder...), ClassOther)
}

// Classify returns the class of a status. A nil status is ClassOther.
func Classify(status *int) Class {
	if status == nil {
		return ClassOther
	}

	switch s := *status; {
	case s == http.StatusNotFound:
		return ClassMissing
	case s == StatusFetchError:
		return ClassFetchError
	case s == StatusSkipped:
		return ClassSkipped
	case s >= 200 && s < 300:
		return ClassSuccess
	case s >= 300 && s < 400:
		return ClassRedirect
	case s >= 400 && s < 500:
		return ClassClientError
	case s >= 500 && s < 600:
		return ClassServerError
	default:
		return ClassOther
	}
}

// ParseClass matches a class by its full label or by its code prefix, so
// "404", "4xx" and "4xx: Client Error" all work.
func ParseClass(s string) (Class, bool) {
	for _, c := range Classes() {
		if s == string(c) || s == c.Code() {
			return c, true
		}
	}
	return "", false
}

// Code returns the three character prefix of the class label.
func (c Class) Code() string {
	if len(c) < 3 {
		return string(c)
	}
	return string(c[:3])
}

// Group partitions set by status class, keeping input order in each class.
func Group(set bangs.Set) map[Class]bangs.Set {
	groups := make(map[Class]bangs.Set)
	for _, b := range set {
		c := Classify(b.Status)
		groups[c] = append(groups[c], b)
	}
	return groups
}
