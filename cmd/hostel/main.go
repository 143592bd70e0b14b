package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/hostelhub/hostel/internal/config"
	"github.com/hostelhub/hostel/internal/guard"
	"github.com/hostelhub/hostel/internal/logger"
	"github.com/hostelhub/hostel/internal/mockapi"
	"github.com/hostelhub/hostel/internal/session"
	"github.com/hostelhub/hostel/internal/tui"
	"github.com/hostelhub/hostel/internal/validate"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries what every subcommand needs.
type cli struct {
	cfg *config.Config
	in  *bufio.Reader
	out io.Writer
	fd  int // terminal for hidden password input, -1 when stdin is not one
	log zerolog.Logger
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c := &cli{
		cfg: cfg,
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  -1,
		log: logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr),
	}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(c.out, "hostel "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(c.out, cfg.PortalURL)
			return nil
		case "login":
			return c.login(ctx)
		case "logout":
			return c.logout(ctx)
		case "whoami":
			return c.whoami(ctx)
		case "mock":
			return c.mock(ctx)
		case "--demo":
			return c.portal(ctx, true)
		default:
			return fmt.Errorf("unknown command %q, see hostel help", args[0])
		}
	}
	return c.portal(ctx, false)
}

// sessions opens the session store. HOSTEL_TOKEN wins over the session file
// and is never written back to it.
func (c *cli) sessions(log zerolog.Logger) *session.Store {
	var p session.Persister = session.NewFileStore(c.cfg.SessionPath())
	if c.cfg.Token != "" {
		p = session.NewMemoryStore(&session.Record{Transport: domain.TransportToken, Token: c.cfg.Token})
	}
	store := session.NewStore(p, log)
	if _, err := store.Restore(); err != nil {
		log.Warn().Err(err).Msg("stored session discarded")
	}
	return store
}

func (c *cli) client(creds client.CredentialSource, log zerolog.Logger) *client.Client {
	return client.New(c.cfg.APIURL, creds,
		client.WithTimeout(c.cfg.RequestTimeout),
		client.WithLogger(log),
	)
}

// portal runs the TUI. With demo set, a mock backend is started in-process on
// a random port and the session lives only in memory.
func (c *cli) portal(ctx context.Context, demo bool) error {
	if err := os.MkdirAll(c.cfg.Home, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", c.cfg.Home, err)
	}
	logFile, err := os.OpenFile(c.cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close() //nolint:errcheck
	log := logger.Setup(c.cfg.LogLevel, c.cfg.LogFormat, logFile)

	var store *session.Store
	if demo {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		addr, err := startDemoBackend(ctx, c.cfg.Mock, log)
		if err != nil {
			return err
		}
		c.cfg.APIURL = "http://" + addr
		store = session.NewStore(session.NewMemoryStore(nil), log)
	} else {
		store = c.sessions(log)
	}

	api := c.client(store, log)
	bridge := tui.NewBridge()
	if err := guard.NewInterceptor(store, bridge, bridge, c.cfg.ExpiryNoticeDelay, log).Install(api); err != nil {
		return err
	}
	g := guard.New(store, api, guard.WithCheckTimeout(c.cfg.CheckTimeout), guard.WithLogger(log))

	app := tui.NewApp(api, store, g, bridge, tui.Options{PortalURL: c.cfg.PortalURL, Logger: log})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func startDemoBackend(ctx context.Context, cfg config.Mock, log zerolog.Logger) (string, error) {
	srv, err := mockapi.New(cfg, mockapi.NewMemoryRegistry(), log)
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("demo backend: %w", err)
	}
	go func() {
		if err := srv.Serve(ctx, ln); err != nil {
			log.Error().Err(err).Msg("demo backend stopped")
		}
	}()
	return ln.Addr().String(), nil
}

// login prompts for credentials and stores the resulting session.
func (c *cli) login(ctx context.Context) error {
	email, err := c.prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := c.secret("Password: ")
	if err != nil {
		return err
	}
	req := client.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if fields := validate.Struct(req); fields != nil {
		return errors.New(validate.First(fields))
	}

	store := c.sessions(c.log)
	sess, err := guard.SignIn(ctx, c.client(store, c.log), store, req)
	if err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) && httpErr.Message != "" {
			return errors.New(httpErr.Message)
		}
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s %s\n", sess.Role.UserType(), sess.SubjectID)
	return nil
}

// logout ends the session on the server when it can and always locally.
func (c *cli) logout(ctx context.Context) error {
	store := c.sessions(c.log)
	if _, ok := store.Current(); !ok {
		// An expired record may still be on disk.
		store.Invalidate()
		store.Settle()
		fmt.Fprintln(c.out, "Already logged out.")
		return nil
	}
	if err := guard.Logout(ctx, c.client(store, c.log), store, nil, c.log); err != nil {
		fmt.Fprintln(c.out, "Logged out locally. The server could not confirm.")
		return nil
	}
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

// whoami asks the server whether the stored session is still good.
func (c *cli) whoami(ctx context.Context) error {
	store := c.sessions(c.log)
	if _, ok := store.Current(); !ok {
		printSignedOut(c.out)
		return nil
	}
	res, err := c.client(store, c.log).Check(ctx)
	if client.IsStatus(err, http.StatusUnauthorized) {
		store.Invalidate()
		store.Settle()
		fmt.Fprintln(c.out, guard.SessionExpiredNotice)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %s\n", res.Role.UserType(), res.UserID)
	return nil
}

// mock runs the bundled backend in the foreground.
func (c *cli) mock(ctx context.Context) error {
	log := logger.Setup(c.cfg.LogLevel, c.cfg.LogFormat, os.Stdout)
	reg, closeReg, err := mockapi.OpenRegistry(ctx, c.cfg.Mock.RedisURL, log)
	if err != nil {
		return err
	}
	defer closeReg() //nolint:errcheck

	srv, err := mockapi.New(c.cfg.Mock, reg, log)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) secret(label string) (string, error) {
	if c.fd < 0 {
		return c.prompt(label)
	}
	fmt.Fprint(c.out, label)
	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
