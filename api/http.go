package api

import (
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// maxBodyBytes bounds POST bodies read by ServeHTTP. API Gateway caps payloads at 10 MB.
const maxBodyBytes = 10 << 20

// gatewayFaultBody is what API Gateway returns when the integration fails.
const gatewayFaultBody = `{"message": "Internal server error"}`

// ServeHTTP adapts a plain HTTP request to Handle so the service can run outside
// Lambda. Handler errors are answered the way the gateway answers an integration
// failure (502), with the CORS headers added.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.log().Error("read request body", "err", err)
		writeFault(w)
		return
	}

	resp, err := h.Handle(r.Context(), toProxyRequest(r, body))
	if err != nil {
		writeFault(w)
		return
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		h.log().Error("write response", "err", err)
	}
}

func toProxyRequest(r *http.Request, body []byte) events.APIGatewayProxyRequest {
	headers := make(map[string]string, len(r.Header))
	for k, vs := range r.Header {
		if len(vs) > 0 {
			headers[k] = vs[0]
		}
	}
	query := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}
	return events.APIGatewayProxyRequest{
		Resource:              r.URL.Path,
		Path:                  r.URL.Path,
		HTTPMethod:            r.Method,
		Headers:               headers,
		MultiValueHeaders:     r.Header,
		QueryStringParameters: query,
		Body:                  string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  uuid.NewString(),
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
		},
	}
}

func writeFault(w http.ResponseWriter) {
	for k, v := range CORSHeaders() {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = io.WriteString(w, gatewayFaultBody)
}
