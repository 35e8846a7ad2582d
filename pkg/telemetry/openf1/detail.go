package openf1

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var (
	detailPath    = jp.MustParseString("$.detail")
	detailMsgPath = jp.MustParseString("$.detail[*].msg")
)

// errorDetail extracts the message of an api error body like
// {"detail":"No results found."} or {"detail":[{"msg":"..."}]}.
// Returns an empty string if body has no detail.
func errorDetail(body []byte) string {
	obj, err := oj.Parse(body)
	if err != nil {
		return ""
	}
	if msgs := detailMsgPath.Get(obj); len(msgs) > 0 {
		return fmt.Sprint(msgs[0])
	}
	res := detailPath.Get(obj)
	if len(res) == 0 {
		return ""
	}
	if s, ok := res[0].(string); ok {
		return s
	}
	return oj.JSON(res[0])
}
