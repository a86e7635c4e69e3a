package handler

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/msgbody/binding"
	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/util"
)

// okBody is the response of every endpoint that does not echo its input.
const okBody = "ok"

type StringHandlerParams struct {
	fx.In

	Reader *body.Reader
	Writer *body.Writer
	Log    *zap.Logger
}

// StringHandler serves the text body endpoints. Each variant reaches the
// same message body through a different handler shape.
type StringHandler struct {
	reader *body.Reader
	writer *body.Writer
	log    *zap.Logger
}

func NewStringHandler(params StringHandlerParams) *StringHandler {
	return &StringHandler{
		reader: params.Reader,
		writer: params.Writer,
		log:    params.Log.Named("string"),
	}
}

// RawV1 reads the body off the http request and writes the response itself.
func (h *StringHandler) RawV1(w http.ResponseWriter, r *http.Request) error {
	req, err := h.reader.ReadRequest(r)
	if err != nil {
		return err
	}

	messageBody, err := req.Text()
	if err != nil {
		return err
	}

	h.logMessageBody(messageBody)

	return h.writer.WriteText(okBody).WriteTo(w, http.StatusOK)
}

// StreamV2 consumes the body stream as UTF-8 and writes to the response stream.
func (h *StringHandler) StreamV2(_ context.Context, in io.Reader, out io.Writer) error {
	req, err := h.reader.ReadBody(in, body.DefaultCharset)
	if err != nil {
		return err
	}

	messageBody, err := req.Text()
	if err != nil {
		return err
	}

	h.logMessageBody(messageBody)

	_, err = io.WriteString(out, okBody)
	return err
}

// EntityV3 receives headers and body as an entity and answers with one.
func (h *StringHandler) EntityV3(
	_ context.Context,
	entity *binding.Entity[string],
) (*binding.Entity[string], error) {
	h.logMessageBody(entity.Body)

	return &binding.Entity[string]{Body: okBody}, nil
}

// BodyV4 receives the decoded text body and returns the response text.
func (h *StringHandler) BodyV4(_ context.Context, messageBody *string) (*string, error) {
	h.logMessageBody(*messageBody)

	return util.Ptr(okBody), nil
}

func (h *StringHandler) logMessageBody(messageBody string) {
	h.log.Info("message body", zap.String("messageBody", messageBody))
}
