package origin

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/exec"
	"strings"

	"github.com/icecave/webproxy/statuspage"
)

// ServerName is sent in the "Server" header of successful responses.
const ServerName = "Tiny Web Server"

// Server is a minimal HTTP/1.0 origin server that serves static files and
// CGI programs. It handles one connection at a time.
type Server struct {
	Locator Locator
	Logger  *log.Logger
}

// Serve accepts connections from listener until it is closed, handling each
// one to completion before accepting the next.
func (svr *Server) Serve(listener net.Listener) error {
	svr.logf("tiny: Listening on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}

		svr.logf("Accepted connection from %s", conn.RemoteAddr())
		svr.Handle(conn)
	}
}

// Handle serves a single request on conn and closes it.
func (svr *Server) Handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	line, err := reader.ReadString('\n')
	if line == "" && err != nil {
		return
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		svr.clientError(conn, line, 400, "Bad request")
		return
	}

	method, uri := strings.ToUpper(fields[0]), fields[1]
	if method != "GET" && method != "HEAD" {
		svr.clientError(conn, fields[0], 501, "Not implemented")
		return
	}

	for {
		header, err := reader.ReadString('\n')
		if err != nil || header == "\r\n" || header == "\n" {
			break
		}
	}

	res := svr.Locator.Locate(uri)
	info, err := os.Stat(res.Path)
	if err != nil {
		svr.clientError(conn, uri, 404, "Not found")
		return
	}

	if res.Dynamic {
		if !info.Mode().IsRegular() || info.Mode().Perm()&0100 == 0 {
			svr.clientError(conn, uri, 403, "Forbidden")
			return
		}
		svr.serveDynamic(conn, res, method)
	} else {
		if !info.Mode().IsRegular() || info.Mode().Perm()&0400 == 0 {
			svr.clientError(conn, uri, 403, "Forbidden")
			return
		}
		svr.serveStatic(conn, res, info.Size(), method)
	}
}

func (svr *Server) serveStatic(w io.Writer, res Resource, size int64, method string) {
	fmt.Fprintf(
		w,
		"HTTP/1.0 200 OK\r\n"+
			"Server: %s\r\n"+
			"Connection: close\r\n"+
			"Content-length: %d\r\n"+
			"Content-type: %s\r\n"+
			"\r\n",
		ServerName,
		size,
		ContentType(res.Path),
	)

	if method == "HEAD" {
		return
	}

	f, err := os.Open(res.Path)
	if err != nil {
		svr.logf("tiny: %s", err)
		return
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		svr.logf("tiny: %s", err)
	}
}

// serveDynamic runs a CGI program with its standard output connected to the
// client. The program writes its own headers after the status line.
func (svr *Server) serveDynamic(w io.Writer, res Resource, method string) {
	fmt.Fprintf(w, "HTTP/1.0 200 OK\r\nServer: %s\r\n", ServerName)

	cmd := exec.Command(res.Path)
	cmd.Env = append(
		os.Environ(),
		"QUERY_STRING="+res.Args,
		"REQUEST_METHOD="+method,
	)
	cmd.Stdout = w

	if err := cmd.Run(); err != nil {
		svr.logf("tiny: %s: %s", res.Path, err)
	}
}

func (svr *Server) clientError(w io.Writer, cause string, code int, reason string) {
	fmt.Fprintf(
		w,
		"HTTP/1.0 %d %s\r\n"+
			"Content-type: text/html\r\n"+
			"\r\n"+
			"<html><title>Tiny Error</title><body bgcolor=\"ffffff\">\r\n"+
			"%d: %s\r\n"+
			"<p>%s: %s\r\n"+
			"<hr><em>The Tiny Web server</em>\r\n",
		code,
		reason,
		code,
		reason,
		statuspage.StatusMessage(code),
		strings.TrimSpace(cause),
	)
}

func (svr *Server) logf(format string, v ...interface{}) {
	if svr.Logger != nil {
		svr.Logger.Printf(format, v...)
	}
}
