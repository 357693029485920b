package proxyprotocol_test

import (
	"fmt"
	"io/ioutil"
	"net"

	"github.com/icecave/webproxy/proxyprotocol"
	proxyproto "github.com/pires/go-proxyproto"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func writeHeader(client net.Conn, version byte, payload string) {
	defer GinkgoRecover()

	header := &proxyproto.Header{
		Command:            proxyproto.PROXY,
		DestinationAddress: net.ParseIP("127.0.0.1"),
		DestinationPort:    12345,
		SourceAddress:      net.ParseIP("127.127.127.127"),
		SourcePort:         31337,
		TransportProtocol:  proxyproto.TCPv4,
		Version:            version,
	}
	n, err := header.WriteTo(client)
	Expect(n).To(BeNumerically(">", 0))
	Expect(err).NotTo(HaveOccurred())

	fmt.Fprint(client, payload)

	err = client.Close()
	Expect(err).NotTo(HaveOccurred())
}

var _ = Describe("PROXY Protocol", func() {
	Describe("Conn", func() {
		It("accepts PROXY v2 connections", func() {
			server, client := net.Pipe()
			go writeHeader(client, 2, "")

			pServer := proxyprotocol.NewConn(server)
			defer pServer.Close()
			Expect(pServer.RemoteAddr().String()).To(Equal("127.127.127.127:31337"))
			Expect(pServer.LocalAddr().String()).To(Equal("127.0.0.1:12345"))
		})

		It("accepts PROXY v1 connections", func() {
			server, client := net.Pipe()
			go writeHeader(client, 1, "")

			pServer := proxyprotocol.NewConn(server)
			defer pServer.Close()
			Expect(pServer.RemoteAddr().String()).To(Equal("127.127.127.127:31337"))
			Expect(pServer.LocalAddr().String()).To(Equal("127.0.0.1:12345"))
		})

		It("reads the stream that follows the header", func() {
			server, client := net.Pipe()
			go writeHeader(client, 1, "GET / HTTP/1.0\r\n\r\n")

			pServer := proxyprotocol.NewConn(server)
			defer pServer.Close()

			data, err := ioutil.ReadAll(pServer)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(string(data)).To(Equal("GET / HTTP/1.0\r\n\r\n"))
		})

		It("accepts non-PROXY connections", func() {
			server, client := net.Pipe()

			go func() {
				defer GinkgoRecover()
				fmt.Fprint(client, "test\n")
				err := client.Close()
				Expect(err).NotTo(HaveOccurred())
			}()

			pServer := proxyprotocol.NewConn(server)
			defer pServer.Close()
			Expect(pServer.RemoteAddr().String()).To(Equal("pipe"))
			Expect(pServer.LocalAddr().String()).To(Equal("pipe"))

			header, err := pServer.Header()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(header).To(BeNil())

			data, err := ioutil.ReadAll(pServer)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(string(data)).To(Equal("test\n"))
		})
	})

	Describe("Listener", func() {
		It("wraps accepted connections", func() {
			inner, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).ShouldNot(HaveOccurred())

			listener := proxyprotocol.NewListener(inner)
			defer listener.Close()

			Expect(listener.Addr()).To(Equal(inner.Addr()))

			go func() {
				defer GinkgoRecover()
				client, err := net.Dial("tcp", inner.Addr().String())
				Expect(err).ShouldNot(HaveOccurred())
				writeHeader(client, 2, "hello")
			}()

			conn, err := listener.Accept()
			Expect(err).ShouldNot(HaveOccurred())
			defer conn.Close()

			Expect(conn.RemoteAddr().String()).To(Equal("127.127.127.127:31337"))

			data, err := ioutil.ReadAll(conn)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(string(data)).To(Equal("hello"))
		})
	})
})
