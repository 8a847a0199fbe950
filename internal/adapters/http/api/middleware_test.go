package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a wrapped handler", t, func() {
		handler := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("slow down"))
		}, "test")

		Convey("When it answers", func() {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest("POST", "/test", http.NoBody))

			Convey("Then the status and body pass through", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(w.Body.String(), ShouldEqual, "slow down")
			})

			Convey("Then a request id is generated", func() {
				So(len(w.Header().Get(RequestIDHeader)), ShouldEqual, 36)
			})
		})

		Convey("When the caller sends a request id", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/test", http.NoBody)
			req.Header.Set(RequestIDHeader, "abc-123")
			handler(w, req)

			Convey("Then it is echoed", func() {
				So(w.Header().Get(RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})

	Convey("Given status codes", t, func() {
		So(errorType(400), ShouldEqual, "bad_request")
		So(errorType(404), ShouldEqual, "not_found")
		So(errorType(405), ShouldEqual, "client_error")
		So(errorType(413), ShouldEqual, "too_large")
		So(errorType(429), ShouldEqual, "backpressure")
		So(errorType(500), ShouldEqual, "server_error")
		So(errorType(503), ShouldEqual, "unavailable")
		So(errorType(504), ShouldEqual, "timeout")
		So(errorType(200), ShouldEqual, "unknown")
		So(errorSeverity(502), ShouldEqual, "high")
		So(errorSeverity(404), ShouldEqual, "medium")
		So(errorSeverity(200), ShouldEqual, "low")
	})
}
