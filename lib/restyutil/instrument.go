// Package restyutil dumps full request/response exchanges of a resty
// client to per-message files, which is the only sane way to debug a
// portal whose failure mode is "returned different markup today".
package restyutil

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	idcounter *uint64
}

// `output` can be nil, if it is, then the function is a no-op
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	i := instrumentCtx{output: output, idcounter: &idcounter}
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) nextId() string {
	return strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id := i.nextId()
	i.output.Write(id, formatHttpMessage(res))
	slog.Debug(
		"http exchange",
		"message_id", id,
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
	)
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	id := i.nextId()
	i.output.Write(id, formatFailedRequest(req, err))
	slog.Debug(
		"http exchange failed",
		"message_id", id,
		"method", req.Method,
		"url", req.URL,
		"err", err,
	)
}
