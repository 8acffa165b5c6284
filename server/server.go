/*
Package server is the inbound HTTP endpoint of the edge agent. Messages posted
to the service path are queued for the poller, or answered right away when
the sender asks for the return route. The same server can act as a relay
keeping the messages of its consumers until they are picked up.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize limits the inbound envelope.
const maxBodySize = 1 << 20

const shutdownTimeout = 5 * time.Second

// Responder opens the envelopes addressed to us. It handles the message
// and returns the sealed reply, if there is one.
type Responder interface {
	Unpack(data []byte) (*framework.Message, error)
	Respond(ctx context.Context, msg *framework.Message) ([]byte, error)
}

// Enqueuer takes the messages for later processing.
type Enqueuer interface {
	Enqueue(msgs ...*framework.Message)
}

type Server struct {
	// ServiceName is the first path segment of the transport endpoint.
	ServiceName string

	Responder Responder
	Queue     Enqueuer

	// Mailbox enables the relay routes when set.
	Mailbox *Mailbox
}

// Handler returns the router of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	service := s.ServiceName
	if service == "" {
		service = utils.Settings.ServiceName()
	}
	r.HandleFunc("/"+service+"/", s.transport).Methods(http.MethodPost)
	r.HandleFunc("/"+service+"/{consumer}", s.transport).Methods(http.MethodPost)

	if s.Mailbox != nil {
		r.HandleFunc("/relay/{consumer}", s.Mailbox.deposit).Methods(http.MethodPost)
		r.HandleFunc("/pickup/{consumer}", s.Mailbox.pickup).Methods(http.MethodPost)
	}

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		glog.V(5).Info("/version requested")
		_, _ = w.Write([]byte(utils.Version))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) transport(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Errorln("transport:", err)
		http.Error(w, "400 - Bad Request", http.StatusBadRequest)
	}))

	logRequestInfo("TRANSPORT", r)
	if s.Responder == nil {
		try.To(errors.New("no responder for inbound messages"))
	}
	data := try.To1(io.ReadAll(io.LimitReader(r.Body, maxBodySize)))
	msg := try.To1(s.Responder.Unpack(data))

	if msg.ReturnRoute || s.Queue == nil {
		reply := try.To1(s.Responder.Respond(r.Context(), msg))
		if reply == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(reply)
		return
	}
	s.Queue.Enqueue(msg)
	w.WriteHeader(http.StatusAccepted)
}

func logRequestInfo(caption string, r *http.Request) {
	if glog.V(1) {
		glog.Infof("===== %s %s %s", caption, r.Method, r.URL.Path)
	}
}

// StartHTTPServer serves the handler on the port until the ctx is done.
// The server is shut down gracefully.
func StartHTTPServer(ctx context.Context, port uint, h http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		glog.V(1).Infof("HTTP server on port: %v", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	glog.V(1).Infoln("HTTP server stopped")
	return nil
}

// BuildHostAddr sets the address the world sees to utils.Settings.
func BuildHostAddr(scheme string, hostPort uint) {
	if hostPort != 80 {
		utils.Settings.SetHostAddr(fmt.Sprintf("%s://%s:%v", scheme, utils.Settings.HostAddr(), hostPort))
	} else {
		utils.Settings.SetHostAddr(fmt.Sprintf("%s://%s", scheme, utils.Settings.HostAddr()))
	}
}

// Endpoint returns our transport endpoint built from the settings.
func Endpoint() string {
	return utils.Settings.HostAddr() + "/" + utils.Settings.ServiceName() + "/"
}
