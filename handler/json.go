package handler

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/msgbody/binding"
	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/body/schema"
	"github.com/lambda-feedback/msgbody/models"
	"github.com/lambda-feedback/msgbody/util"
)

type JSONHandlerParams struct {
	fx.In

	Reader *body.Reader
	Writer *body.Writer
	Schema *schema.Schema
	Log    *zap.Logger
}

// JSONHandler serves the structured body endpoints.
type JSONHandler struct {
	reader *body.Reader
	writer *body.Writer
	schema *schema.Schema
	log    *zap.Logger
}

func NewJSONHandler(params JSONHandlerParams) *JSONHandler {
	return &JSONHandler{
		reader: params.Reader,
		writer: params.Writer,
		schema: params.Schema,
		log:    params.Log.Named("json"),
	}
}

// NewHelloDataSchema compiles the record schema shared by all json endpoints.
func NewHelloDataSchema(config body.Config) (*schema.Schema, error) {
	return schema.NewHelloData(schema.Strict(config.Strict))
}

// RawV1 reads the body off the http request and decodes it by hand.
func (h *JSONHandler) RawV1(w http.ResponseWriter, r *http.Request) error {
	req, err := h.reader.ReadRequest(r)
	if err != nil {
		return err
	}

	messageBody, err := req.Text()
	if err != nil {
		return err
	}

	h.log.Info("message body", zap.String("messageBody", messageBody))

	data, err := h.decode(messageBody)
	if err != nil {
		return err
	}

	h.logHelloData(data)

	return h.writer.WriteText(okBody).WriteTo(w, http.StatusOK)
}

// TextV2 receives the text body and decodes it by hand.
func (h *JSONHandler) TextV2(_ context.Context, messageBody *string) (*string, error) {
	h.log.Info("message body", zap.String("messageBody", *messageBody))

	data, err := h.decode(*messageBody)
	if err != nil {
		return nil, err
	}

	h.logHelloData(data)

	return util.Ptr(okBody), nil
}

// BodyV3 receives the decoded record.
func (h *JSONHandler) BodyV3(_ context.Context, data *models.HelloData) (*string, error) {
	h.logHelloData(data)

	return util.Ptr(okBody), nil
}

// EntityV4 receives the record as an entity.
func (h *JSONHandler) EntityV4(
	_ context.Context,
	entity *binding.Entity[models.HelloData],
) (*binding.Entity[string], error) {
	h.logHelloData(&entity.Body)

	return &binding.Entity[string]{Body: okBody}, nil
}

// EchoV5 receives the decoded record and returns it as the response.
func (h *JSONHandler) EchoV5(_ context.Context, data *models.HelloData) (*models.HelloData, error) {
	h.logHelloData(data)

	return data, nil
}

func (h *JSONHandler) decode(messageBody string) (*models.HelloData, error) {
	var data models.HelloData
	if err := body.DecodeStructured([]byte(messageBody), body.DefaultCharset, h.schema, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

func (h *JSONHandler) logHelloData(data *models.HelloData) {
	h.log.Info("hello data", data.Fields()...)
}
