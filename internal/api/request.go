package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/steemit/yatube/internal/serializers"
)

// readData decodes the request body into field values. JSON, urlencoded
// forms and multipart forms are accepted. In form bodies an empty value of
// a nullable field reads as null.
func readData(c *gin.Context, nullable ...string) (serializers.Data, error) {
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, NewError(http.StatusBadRequest, "Multipart form parse error - "+err.Error())
		}
		data := formData(form.Value, nullable)
		for key, files := range form.File {
			if len(files) > 0 {
				data[key] = files[0]
			}
		}
		return data, nil

	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, NewError(http.StatusBadRequest, "Form parse error - "+err.Error())
		}
		return formData(c.Request.PostForm, nullable), nil

	case binding.MIMEJSON, "":
		return readJSON(c)

	default:
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return serializers.Data{}, nil
		}
		return nil, NewError(http.StatusUnsupportedMediaType,
			fmt.Sprintf("Unsupported media type %q in request.", c.ContentType()))
	}
}

// formData keeps the last value of every form key
func formData(values map[string][]string, nullable []string) serializers.Data {
	data := serializers.Data{}
	for key, vals := range values {
		if len(vals) > 0 {
			data[key] = vals[len(vals)-1]
		}
	}
	for _, key := range nullable {
		if v, ok := data[key]; ok && v == "" {
			data[key] = nil
		}
	}
	return data
}

func readJSON(c *gin.Context) (serializers.Data, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return serializers.Data{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, NewError(http.StatusBadRequest, "JSON parse error - "+err.Error())
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, serializers.FieldError(serializers.NonFieldErrors,
			fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonTypeName(value)))
	}
	return serializers.Data(obj), nil
}

func jsonTypeName(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "list"
	case string:
		return "str"
	case json.Number:
		return "int"
	case bool:
		return "bool"
	default:
		return "NoneType"
	}
}

// bindJSON decodes a fixed-shape JSON body and validates its binding tags
func bindJSON(c *gin.Context, dest interface{}) error {
	err := c.ShouldBindJSON(dest)
	if errors.Is(err, io.EOF) {
		// an empty body still reports every required field
		err = binding.Validator.ValidateStruct(dest)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := serializers.ValidationError{}
		for _, fe := range verrs {
			out.Add(fe.Field(), validationMessage(fe))
		}
		return out
	}
	return NewError(http.StatusBadRequest, "JSON parse error - "+err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return serializers.MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return serializers.MsgInvalidValue
	}
}

// jsonTagName makes validator report fields by their JSON name
func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// pathID parses a numeric path parameter; anything else is a 404
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
