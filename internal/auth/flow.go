package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/daryadaneshmand/Oura-data/internal/telemetry/tracing"
	"github.com/daryadaneshmand/Oura-data/pkg"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	authURL     = "https://cloud.ouraring.com/oauth/authorize"
	tokenURL    = "https://api.ouraring.com/oauth/token"
	redirectURL = "http://localhost:3000/callback"
	listenAddr  = ":3000"
)

// Only documented Oura scopes. Unknown scope names make the consent
// screen fail.
var scopes = []string{
	"email", "personal", "daily", "heartrate", "workout", "tag", "session", "spo2", "stress",
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// Flow runs the one-time OAuth2 authorization-code exchange: it serves
// a local callback listener, hands out the authorization URL for the
// browser, and trades the returned code for an access token.
type Flow struct {
	config             *oauth2.Config
	randStateGenerator func() string
	state              string
}

func NewFlow(clientID, clientSecret string) (*Flow, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("client id and secret are required")
	}
	return &Flow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		randStateGenerator: GenerateStateString,
	}, nil
}

func GenerateStateString() string {
	s, err := pkg.GenerateRandomString(16)
	if err != nil {
		log.Fatalf("generate random state: %s", err)
	}
	return s
}

// AuthCodeURL returns the URL the user opens in a browser to authorize
// the app. The embedded state is checked by Run's callback handler.
func (f *Flow) AuthCodeURL() string {
	f.state = f.randStateGenerator()
	return f.config.AuthCodeURL(f.state)
}

// Run blocks serving the local callback until the provider redirects
// back with a code (or an error), exchanges the code and returns the
// token. AuthCodeURL must have been called first so the state is set.
func (f *Flow) Run(ctx context.Context) (_ *oauth2.Token, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.flow.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if f.state == "" {
		return nil, errors.New("authorization not started, call AuthCodeURL first")
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", listenAddr, err)
	}

	resultCh := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		f.handleCallback(w, r, resultCh)
	})

	server := &http.Server{Handler: mux}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			resultCh <- callbackResult{err: serveErr}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Errorf("callback server shutdown: %s", shutdownErr)
		}
	}()

	select {
	case res := <-resultCh:
		return res.token, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request, resultCh chan<- callbackResult) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "auth.flow.callback")
	defer span.End()

	query := r.URL.Query()
	if authErr := query.Get("error"); authErr != "" {
		pkg.WriteResponse(w, pkg.ContentType.HTML, fmt.Sprintf("<h1>Authorization failed</h1><p>%s</p>", authErr), http.StatusBadRequest)
		resultCh <- callbackResult{err: fmt.Errorf("authorization refused: %s", authErr)}
		return
	}
	if st := query.Get("state"); st != f.state {
		pkg.WriteResponse(w, pkg.ContentType.HTML, "<h1>State mismatch</h1>", http.StatusForbidden)
		resultCh <- callbackResult{err: errors.New("state mismatch")}
		return
	}
	code := query.Get("code")
	if code == "" {
		pkg.WriteResponse(w, pkg.ContentType.HTML, "<h1>No authorization code received</h1>", http.StatusBadRequest)
		resultCh <- callbackResult{err: errors.New("no authorization code received")}
		return
	}

	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		pkg.WriteResponse(w, pkg.ContentType.HTML, "<h1>Token exchange failed</h1>", http.StatusBadGateway)
		resultCh <- callbackResult{err: fmt.Errorf("token exchange: %w", err)}
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.HTML,
		"<h1>Success</h1><p>Token saved. You can close this tab.</p>",
		http.StatusOK,
	)
	resultCh <- callbackResult{token: token}
}
