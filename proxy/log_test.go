package proxy_test

import (
	"bufio"
	"bytes"
	"errors"
	"log"
	"strings"

	"github.com/icecave/webproxy/backend"
	"github.com/icecave/webproxy/name"
	"github.com/icecave/webproxy/proxy"
	"github.com/icecave/webproxy/request"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LogContext", func() {
	var (
		output *bytes.Buffer
		logCtx *proxy.LogContext
	)

	BeforeEach(func() {
		output = &bytes.Buffer{}
		logCtx = &proxy.LogContext{
			Logger:     log.New(output, "", 0),
			ClientAddr: "192.0.2.1:54321",
		}
	})

	It("does nothing without a logger", func() {
		logCtx.Logger = nil
		logCtx.Log(nil)
		Expect(output.Len()).To(Equal(0))
	})

	It("uses hyphens for unknown fields", func() {
		logCtx.Event = proxy.EventReject
		logCtx.Log(errors.New("malformed request: bad"))

		Expect(output.String()).To(Equal(
			"REJECT 192.0.2.1:54321 - - - - - - - \"malformed request: bad\"\n",
		))
	})

	It("logs the request line and origin of a completed transaction", func() {
		req, err := request.Parse(bufio.NewReader(strings.NewReader(
			"GET http://origin.test:8080/a HTTP/1.1\r\n\r\n",
		)))
		Expect(err).ShouldNot(HaveOccurred())

		logCtx.Event = proxy.EventMiss
		logCtx.Request = req
		logCtx.Endpoint = &backend.Endpoint{Name: name.Parse("origin.test"), Port: 8080}
		logCtx.StatusCode = 200
		logCtx.Metrics.Start()
		logCtx.Metrics.FirstByteSent()
		logCtx.Metrics.BytesIn = 12345
		logCtx.Metrics.BytesOut = 12345
		logCtx.Metrics.LastByteSent()
		logCtx.Log(nil)

		Expect(output.String()).To(MatchRegexp(
			`^MISS 192\.0\.2\.1:54321 origin\.test:8080 "GET /a HTTP/1\.0" 200 f/[0-9.,]+ms l/[0-9.,]+ms i/12,345 o/12,345\n$`,
		))
	})

	It("falls back to the request address when there is no endpoint", func() {
		req, err := request.Parse(bufio.NewReader(strings.NewReader(
			"GET http://origin.test/ HTTP/1.1\r\n\r\n",
		)))
		Expect(err).ShouldNot(HaveOccurred())

		logCtx.Event = proxy.EventHit
		logCtx.Request = req
		logCtx.Log(nil)

		Expect(output.String()).To(HavePrefix(`HIT 192.0.2.1:54321 origin.test:80 "GET / HTTP/1.0"`))
	})
})
