package request_test

import (
	"github.com/icecave/webproxy/request"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseURI", func() {
	DescribeTable(
		"it splits the URI",
		func(uri, host string, port int, path string) {
			h, p, pa, err := request.ParseURI(uri)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(h).To(Equal(host))
			Expect(p).To(Equal(port))
			Expect(pa).To(Equal(path))
		},
		Entry("absolute with port", "http://example.com:8080/a/b?x=1", "example.com", 8080, "/a/b?x=1"),
		Entry("absolute without port", "http://example.com/index.html", "example.com", 80, "/index.html"),
		Entry("absolute without path", "http://example.com", "example.com", 80, "/"),
		Entry("absolute with port and no path", "http://example.com:8000", "example.com", 8000, "/"),
		Entry("absolute with query and no path", "http://example.com?q=1", "example.com", 80, "/?q=1"),
		Entry("upper-case scheme", "HTTP://example.com/", "example.com", 80, "/"),
		Entry("no scheme", "example.com:81/x", "example.com", 81, "/x"),
		Entry("origin-form", "/index.html", "", 80, "/index.html"),
		Entry("IPv6 literal", "http://[::1]:8080/", "::1", 8080, "/"),
	)

	It("rejects a non-numeric port", func() {
		_, _, _, err := request.ParseURI("http://example.com:abc/")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseHost", func() {
	It("splits the host and port", func() {
		host, port, err := request.ParseHost("192.168.1.1:8000", 80)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(host).To(Equal("192.168.1.1"))
		Expect(port).To(Equal(8000))
	})

	It("leaves the port unchanged when there is none", func() {
		host, port, err := request.ParseHost(" example.com ", 8081)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(host).To(Equal("example.com"))
		Expect(port).To(Equal(8081))
	})

	It("rejects an empty value", func() {
		_, _, err := request.ParseHost("", 80)
		Expect(err).To(HaveOccurred())
	})
})
