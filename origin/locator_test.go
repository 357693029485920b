package origin_test

import (
	"path/filepath"

	"github.com/icecave/webproxy/origin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Locator", func() {
	subject := origin.Locator{Root: "/srv/www"}

	DescribeTable(
		"Locate",
		func(uri string, expected origin.Resource) {
			expected.Path = filepath.FromSlash(expected.Path)
			Expect(subject.Locate(uri)).To(Equal(expected))
		},
		Entry("static file", "/godzilla.gif", origin.Resource{Path: "/srv/www/godzilla.gif"}),
		Entry("directory index", "/", origin.Resource{Path: "/srv/www/home.html"}),
		Entry("nested directory index", "/docs/", origin.Resource{Path: "/srv/www/docs/home.html"}),
		Entry("query on static file", "/a.html?x=1", origin.Resource{Path: "/srv/www/a.html?x=1"}),
		Entry("parent references", "/../../etc/passwd", origin.Resource{Path: "/srv/www/etc/passwd"}),
		Entry("CGI program", "/cgi-bin/adder", origin.Resource{Path: "/srv/www/cgi-bin/adder", Dynamic: true}),
		Entry(
			"CGI program with arguments",
			"/cgi-bin/adder?15000&213",
			origin.Resource{Path: "/srv/www/cgi-bin/adder", Dynamic: true, Args: "15000&213"},
		),
	)

	It("uses the working directory when no root is set", func() {
		res := origin.Locator{}.Locate("/")
		Expect(res.Path).To(Equal(origin.IndexFile))
	})
})

var _ = Describe("ContentType", func() {
	DescribeTable(
		"it derives the type from the file name",
		func(p, expected string) {
			Expect(origin.ContentType(p)).To(Equal(expected))
		},
		Entry("html", "home.html", "text/html"),
		Entry("gif", "godzilla.gif", "image/gif"),
		Entry("png", "a.png", "image/png"),
		Entry("jpg", "a.jpg", "image/jpeg"),
		Entry("mp4", "a.mp4", "video/mp4"),
		Entry("mpeg", "a.mpeg", "video/mpeg"),
		Entry("anything else", "notes.txt", "text/plain"),
	)
})
