package server

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Fault is an XML-RPC fault response.
type Fault struct {
	Code    int
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault %d: %s", f.Code, f.Message)
}

type methodCall struct {
	XMLName    xml.Name `xml:"methodCall"`
	MethodName string   `xml:"methodName"`
	Params     []param  `xml:"params>param"`
}

type methodResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  []param  `xml:"params>param"`
	Fault   *value   `xml:"fault>value"`
}

type param struct {
	Value value `xml:"value"`
}

type member struct {
	Name  string `xml:"name"`
	Value value  `xml:"value"`
}

// value mirrors <value>. A value without a type element is a string held
// in Text.
type value struct {
	Int      *string   `xml:"int"`
	I4       *string   `xml:"i4"`
	I8       *string   `xml:"i8"`
	Double   *string   `xml:"double"`
	Boolean  *string   `xml:"boolean"`
	String   *string   `xml:"string"`
	Base64   *string   `xml:"base64"`
	DateTime *string   `xml:"dateTime.iso8601"`
	Nil      *struct{} `xml:"nil"`
	Array    *struct {
		Data []value `xml:"data>value"`
	} `xml:"array"`
	Struct *struct {
		Members []member `xml:"member"`
	} `xml:"struct"`
	Text string `xml:",chardata"`
}

func (v value) decode() (any, error) {
	switch {
	case v.Int != nil:
		return parseInt(*v.Int)
	case v.I4 != nil:
		return parseInt(*v.I4)
	case v.I8 != nil:
		return parseInt(*v.I8)
	case v.Double != nil:
		f, err := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		if err != nil {
			return nil, fmt.Errorf("bad double %q", *v.Double)
		}
		return f, nil
	case v.Boolean != nil:
		switch strings.TrimSpace(*v.Boolean) {
		case "1", "true":
			return true, nil
		case "0", "false":
			return false, nil
		}
		return nil, fmt.Errorf("bad boolean %q", *v.Boolean)
	case v.String != nil:
		return *v.String, nil
	case v.Base64 != nil:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*v.Base64))
		if err != nil {
			return nil, fmt.Errorf("bad base64: %w", err)
		}
		return string(b), nil
	case v.DateTime != nil:
		return strings.TrimSpace(*v.DateTime), nil
	case v.Nil != nil:
		return nil, nil
	case v.Array != nil:
		out := make([]any, len(v.Array.Data))
		for i, item := range v.Array.Data {
			d, err := item.decode()
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Members))
		for _, m := range v.Struct.Members {
			d, err := m.Value.decode()
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", m.Name, err)
			}
			out[m.Name] = d
		}
		return out, nil
	}
	return v.Text, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad int %q", s)
	}
	return n, nil
}

// DecodeCall parses a methodCall document.
func DecodeCall(r io.Reader) (method string, params []any, err error) {
	var call methodCall
	if err := xml.NewDecoder(r).Decode(&call); err != nil {
		return "", nil, err
	}
	method = strings.TrimSpace(call.MethodName)
	if method == "" {
		return "", nil, errors.New("missing methodName")
	}
	params = make([]any, len(call.Params))
	for i, p := range call.Params {
		if params[i], err = p.Value.decode(); err != nil {
			return "", nil, fmt.Errorf("param %d: %w", i+1, err)
		}
	}
	return method, params, nil
}

// DecodeResponse parses a methodResponse document. A fault response is
// returned as a *Fault error.
func DecodeResponse(r io.Reader) (any, error) {
	var resp methodResponse
	if err := xml.NewDecoder(r).Decode(&resp); err != nil {
		return nil, err
	}
	if resp.Fault != nil {
		raw, err := resp.Fault.decode()
		if err != nil {
			return nil, err
		}
		m, _ := raw.(map[string]any)
		code, _ := m["faultCode"].(int)
		msg, _ := m["faultString"].(string)
		return nil, &Fault{Code: code, Message: msg}
	}
	if len(resp.Params) == 0 {
		return nil, nil
	}
	return resp.Params[0].Value.decode()
}

// EncodeCall writes a methodCall document.
func EncodeCall(w io.Writer, method string, params []any) error {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<methodCall><methodName>")
	escape(&b, method)
	b.WriteString("</methodName><params>")
	for _, p := range params {
		b.WriteString("<param>")
		if err := encodeValue(&b, p); err != nil {
			return err
		}
		b.WriteString("</param>")
	}
	b.WriteString("</params></methodCall>")
	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeResponse writes a methodResponse carrying v.
func EncodeResponse(w io.Writer, v any) error {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<methodResponse><params><param>")
	if err := encodeValue(&b, v); err != nil {
		return err
	}
	b.WriteString("</param></params></methodResponse>")
	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeFault writes a methodResponse carrying f.
func EncodeFault(w io.Writer, f *Fault) error {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<methodResponse><fault>")
	err := encodeValue(&b, map[string]any{"faultCode": f.Code, "faultString": f.Message})
	if err != nil {
		return err
	}
	b.WriteString("</fault></methodResponse>")
	_, err = io.WriteString(w, b.String())
	return err
}

func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}

func encodeValue(b *strings.Builder, v any) error {
	b.WriteString("<value>")
	switch x := v.(type) {
	case nil:
		b.WriteString("<nil/>")
	case string:
		b.WriteString("<string>")
		escape(b, x)
		b.WriteString("</string>")
	case bool:
		b.WriteString("<boolean>")
		if x {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
		b.WriteString("</boolean>")
	case int:
		fmt.Fprintf(b, "<int>%d</int>", x)
	case int64:
		fmt.Fprintf(b, "<int>%d</int>", x)
	case uint64:
		fmt.Fprintf(b, "<int>%d</int>", x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("cannot marshal %v", x)
		}
		b.WriteString("<double>")
		b.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
		b.WriteString("</double>")
	default:
		if err := encodeComposite(b, reflect.ValueOf(v)); err != nil {
			return err
		}
	}
	b.WriteString("</value>")
	return nil
}

func encodeComposite(b *strings.Builder, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		b.WriteString("<array><data>")
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(b, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		b.WriteString("</data></array>")
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		b.WriteString("<struct>")
		for _, k := range keys {
			b.WriteString("<member><name>")
			escape(b, k)
			b.WriteString("</name>")
			if err := encodeValue(b, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()); err != nil {
				return err
			}
			b.WriteString("</member>")
		}
		b.WriteString("</struct>")
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		fmt.Fprintf(b, "<int>%d</int>", rv.Int())
		return nil
	case reflect.Float32:
		b.WriteString("<double>")
		b.WriteString(strconv.FormatFloat(rv.Float(), 'f', -1, 64))
		b.WriteString("</double>")
		return nil
	}
	return fmt.Errorf("cannot marshal %s", rv.Type())
}
