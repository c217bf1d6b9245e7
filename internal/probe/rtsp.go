// Package probe offers direct connectivity checks that bypass the server,
// for diagnosing whether a failure sits in the source or in the server's
// view of it.
package probe

import (
	"fmt"
	"net/url"
	"time"

	"github.com/bluenviron/gortsplib/v4"
	"github.com/bluenviron/gortsplib/v4/pkg/base"
)

// RTSPResult summarizes a direct DESCRIBE against an RTSP source.
type RTSPResult struct {
	Online bool
	Medias int
	Detail string
}

// RTSP connects straight to the source and issues a DESCRIBE within the
// given timeout. Credentials may be supplied separately when the URL does
// not embed them.
func RTSP(rawURL, username, password string, timeout time.Duration) RTSPResult {
	u, err := base.ParseURL(rawURL)
	if err != nil {
		return RTSPResult{Detail: fmt.Sprintf("malformed URL: %v", err)}
	}
	if username != "" && u.User == nil {
		u.User = url.UserPassword(username, password)
	}

	c := &gortsplib.Client{
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	desc, _, err := c.Describe(u)
	if err != nil {
		return RTSPResult{Detail: fmt.Sprintf("describe failed: %v", err)}
	}
	defer c.Close()

	return RTSPResult{
		Online: true,
		Medias: len(desc.Medias),
		Detail: fmt.Sprintf("%d media track(s)", len(desc.Medias)),
	}
}
