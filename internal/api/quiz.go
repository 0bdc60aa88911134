package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/mathpop/internal/flags"
	"github.com/abhisek/mathpop/internal/llm"
	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Quiz sockets carry no credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type inputPayload struct {
	Key string `json:"key"`
}

type modePayload struct {
	Mode string `json:"mode"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Events the connection loop consumes. Everything that touches the
// controller arrives on one channel.
type inboundEvent inboundMessage

type timerEvent struct {
	kind  session.TimerKind
	token uint64
}

type acquiredEvent struct {
	token   uint64
	problem *problemgen.Problem
	err     error
}

type claimedEvent struct {
	token uint64
	show  bool
	err   error
}

// handleQuiz upgrades to a websocket and runs one quiz per connection.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	q := s.newQuizConn(conn, clientID)
	q.run(r.Context())
}

type quizConn struct {
	conn      *websocket.Conn
	ctrl      *session.Controller
	sessionID string
	events    chan any
	timers    map[session.TimerKind]*time.Timer
	logger    *slog.Logger
}

func (s *Server) newQuizConn(conn *websocket.Conn, clientID string) *quizConn {
	var nf session.NoticeFlags
	if s.opts.FlagsFor != nil {
		nf = s.opts.FlagsFor(clientID)
	} else {
		nf = flags.NewMemory()
	}
	sessionID := llm.NewSessionID()
	logger := s.logger.With("session", sessionID, "client", clientID)

	ctrl := session.New(s.opts.Session, session.Deps{
		Adaptive: s.opts.Adaptive,
		Bank:     problemgen.NewBankProducer(s.opts.Bank, s.opts.BankOptions),
		Flags:    nf,
		Logger:   logger,
	})
	return &quizConn{
		conn:      conn,
		ctrl:      ctrl,
		sessionID: sessionID,
		events:    make(chan any, 16),
		timers:    make(map[session.TimerKind]*time.Timer),
		logger:    logger,
	}
}

// run is the connection's event loop. It alone calls the controller and
// writes to the socket; the reader, timers and acquisitions feed events.
func (q *quizConn) run(parent context.Context) {
	ctx, cancel := context.WithCancel(llm.WithSession(parent, q.sessionID))
	defer cancel()
	defer q.stopTimers()

	go q.read(ctx, cancel)

	q.logger.Info("quiz connected")
	if err := q.writeState(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("quiz disconnected")
			return
		case ev := <-q.events:
			effects, err := q.handle(ev)
			if err != nil {
				if q.write(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}) != nil {
					return
				}
				continue
			}
			q.apply(ctx, effects)
			if err := q.writeState(); err != nil {
				return
			}
		}
	}
}

func (q *quizConn) read(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	for {
		var msg inboundMessage
		if err := q.conn.ReadJSON(&msg); err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) {
				q.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		select {
		case q.events <- inboundEvent(msg):
		case <-ctx.Done():
			return
		}
	}
}

var errUnsupported = errors.New("unsupported message type")

func (q *quizConn) handle(ev any) ([]session.Effect, error) {
	switch ev := ev.(type) {
	case timerEvent:
		return q.ctrl.Fire(ev.kind, ev.token), nil
	case acquiredEvent:
		return q.ctrl.Acquired(ev.token, ev.problem, ev.err), nil
	case claimedEvent:
		return q.ctrl.NoticeClaimed(ev.token, ev.show, ev.err), nil
	case inboundEvent:
		return q.command(ev)
	}
	return nil, nil
}

func (q *quizConn) command(msg inboundEvent) ([]session.Effect, error) {
	switch msg.Type {
	case "start":
		return q.ctrl.StartGame(), nil
	case "submit":
		return q.ctrl.Submit(), nil
	case "skip":
		return q.ctrl.Skip(), nil
	case "harder":
		return q.ctrl.IncreaseDifficulty(), nil
	case "input":
		var p inputPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, errors.New("invalid input payload")
		}
		k, ok := parseKey(p.Key)
		if !ok {
			return nil, errors.New("unknown key " + p.Key)
		}
		return q.ctrl.Input(k), nil
	case "mode":
		var p modePayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return nil, errors.New("invalid mode payload")
			}
		}
		if p.Mode == "" {
			return q.ctrl.ToggleMode(), nil
		}
		m, err := session.ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		return q.ctrl.SetMode(m), nil
	}
	return nil, errUnsupported
}

func parseKey(s string) (session.Key, bool) {
	switch s {
	case "backspace":
		return session.KeyBackspace, true
	case "-":
		return session.KeySign, true
	case ".":
		return session.KeyDecimal, true
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return session.DigitKey(int(s[0] - '0')), true
	}
	return 0, false
}

// apply performs effects: timers post back through time.AfterFunc while
// acquisitions and notice claims run on their own goroutines.
func (q *quizConn) apply(ctx context.Context, effects []session.Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case session.Schedule:
			if t := q.timers[e.Timer]; t != nil {
				t.Stop()
			}
			ev := timerEvent{kind: e.Timer, token: e.Token}
			q.timers[e.Timer] = time.AfterFunc(e.After, func() { q.post(ctx, ev) })
		case session.Acquire:
			go func() {
				p, err := e.Run(ctx)
				q.post(ctx, acquiredEvent{token: e.Token, problem: p, err: err})
			}()
		case session.ClaimNotice:
			go func() {
				show, err := e.Run(ctx)
				q.post(ctx, claimedEvent{token: e.Token, show: show, err: err})
			}()
		}
	}
}

func (q *quizConn) post(ctx context.Context, ev any) {
	select {
	case q.events <- ev:
	case <-ctx.Done():
	}
}

func (q *quizConn) stopTimers() {
	for _, t := range q.timers {
		t.Stop()
	}
}

func (q *quizConn) writeState() error {
	return q.write(outboundMessage{Type: "state", Payload: newStateView(q.ctrl)})
}

func (q *quizConn) write(msg outboundMessage) error {
	_ = q.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := q.conn.WriteJSON(msg); err != nil {
		q.logger.Warn("websocket write failed", "error", err)
		return err
	}
	return nil
}
