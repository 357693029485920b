package statuspage_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/icecave/webproxy/backend"
	"github.com/icecave/webproxy/request"
	"github.com/icecave/webproxy/statuspage"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Page", func() {
	Describe("Bytes", func() {
		It("renders the DNS error page verbatim", func() {
			Expect(string(statuspage.DNSError.Bytes())).To(Equal(
				"HTTP/1.0 500 Proxy Error\r\n\r\n<html><body>DNS Error</body></html>\r\n\r\n",
			))
		})

		It("renders the socket error page verbatim", func() {
			Expect(string(statuspage.SocketError.Bytes())).To(Equal(
				"HTTP/1.0 500 Proxy Error\r\n\r\n<html><body>Socket Error</body></html>\r\n\r\n",
			))
		})

		It("renders the bad request page verbatim", func() {
			Expect(string(statuspage.BadRequest.Bytes())).To(Equal(
				"HTTP/1.0 400 Bad Request\r\n\r\n<html><body>Bad Request</body></html>\r\n\r\n",
			))
		})
	})

	Describe("WriteTo", func() {
		It("writes the whole page", func() {
			var buf bytes.Buffer
			n, err := statuspage.BadRequest.WriteTo(&buf)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(n).To(BeEquivalentTo(buf.Len()))
			Expect(buf.Bytes()).To(Equal(statuspage.BadRequest.Bytes()))
		})
	})
})

var _ = Describe("ForError", func() {
	DescribeTable(
		"it classifies transaction errors",
		func(err error, expected statuspage.Page) {
			Expect(statuspage.ForError(err)).To(Equal(expected))
		},
		Entry("unsupported method", &request.UnsupportedMethodError{Method: "POST"}, statuspage.BadRequest),
		Entry("malformed request", &request.MalformedRequestError{Reason: "x"}, statuspage.BadRequest),
		Entry("truncated request", request.ErrTruncatedRequest, statuspage.BadRequest),
		Entry("wrapped truncated request", fmt.Errorf("read: %w", request.ErrTruncatedRequest), statuspage.BadRequest),
		Entry("DNS failure", &backend.DNSError{Host: "x", Err: errors.New("no such host")}, statuspage.DNSError),
		Entry("socket failure", &backend.SocketError{Address: "x:80", Err: errors.New("refused")}, statuspage.SocketError),
		Entry("anything else", errors.New("<error>"), statuspage.ProxyError),
	)
})

var _ = Describe("StatusMessage", func() {
	It("describes known status codes", func() {
		Expect(statuspage.StatusMessage(404)).To(Equal("The page you've requested could not be found."))
	})

	It("falls back to a generic error message", func() {
		Expect(statuspage.StatusMessage(418)).To(Equal("We're sorry, something went wrong!"))
	})

	It("falls back to a generic message for other codes", func() {
		Expect(statuspage.StatusMessage(200)).To(Equal("That's all we know."))
	})
})
