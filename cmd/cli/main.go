package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"campushub/internal/client"
	"campushub/internal/config"
)

const usage = `usage: campushub <command> [args]

commands:
  register            create an account and sign in
  login               sign in
  logout              sign out
  whoami              show the signed-in user
  notices             list notices
  read <id>           mark a notice as read
  upvote <id>         toggle your upvote on a notice
`

// readPassword and stdinIsTerminal are test seams for the terminal.
var (
	readPassword    = term.ReadPassword
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

type shell struct {
	session *client.Session
	cache   *client.AuthCache
	api     *client.API
	rec     *client.Reconciler
	in      *bufio.Reader
	out     io.Writer
	logger  *logrus.Logger
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ClientConfig, args []string, stdin io.Reader, stdout io.Writer, logger *logrus.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}

	store, err := client.OpenStore(ctx, cfg.Client.StatePath)
	if err != nil {
		return err
	}
	defer store.Close()

	cache := client.NewAuthCache(store)
	if err := cache.Load(ctx); err != nil {
		logger.Warnf("load cached identity: %v", err)
	}
	jar, err := client.NewCookieJar(ctx, store, cfg.Client.Server, logger)
	if err != nil {
		return err
	}
	api := client.NewAPI(cfg.Client.Server, jar)

	a := &shell{
		session: client.NewSession(api, cache),
		cache:   cache,
		api:     api,
		rec:     client.NewReconciler(api, cache, store),
		in:      bufio.NewReader(stdin),
		out:     stdout,
		logger:  logger,
	}
	logger.WithField("mode", cache.Engagement()).Debug("client ready")

	switch args[0] {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		err := a.session.Logout(ctx)
		fmt.Fprintln(a.out, "signed out")
		return err
	case "whoami":
		id, err := a.cache.RequireAuth()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s <%s> (id %d)\n", id.Name, id.Email, id.ID)
		return nil
	case "notices":
		return a.notices(ctx)
	case "read":
		id, err := noticeArg(args)
		if err != nil {
			return err
		}
		res, err := a.rec.MarkRead(ctx, id)
		if err != nil {
			return err
		}
		if res.SessionExpired {
			a.expire(ctx)
		}
		fmt.Fprintf(a.out, "notice %d marked read (%s)\n", id, res.Mode)
		return nil
	case "upvote":
		id, err := noticeArg(args)
		if err != nil {
			return err
		}
		res, err := a.rec.ToggleUpvote(ctx, id)
		if errors.Is(err, client.ErrSessionExpired) {
			a.expire(ctx)
		}
		if errors.Is(err, client.ErrAuthRequired) {
			return fmt.Errorf("%w: run `campushub login` first", err)
		}
		if err != nil {
			return err
		}
		state := "removed"
		if res.Upvoted {
			state = "added"
		}
		fmt.Fprintf(a.out, "upvote %s, notice %d now has %d\n", state, id, res.UpvoteCount)
		return nil
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *shell) register(ctx context.Context) error {
	name, err := a.prompt("Name")
	if err != nil {
		return err
	}
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	id, err := a.session.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "welcome, %s\n", id.Name)
	return nil
}

func (a *shell) login(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	id, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s\n", id.Name)
	return nil
}

func (a *shell) notices(ctx context.Context) error {
	notices, err := a.api.Notices(ctx)
	if err != nil {
		return err
	}
	for _, n := range notices {
		mark := " "
		read, err := a.rec.IsRead(ctx, n.ID)
		if errors.Is(err, client.ErrSessionExpired) {
			a.expire(ctx)
			read, err = a.rec.IsRead(ctx, n.ID)
		}
		if err == nil && read {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %4d  %-16s %s  (+%d)\n", mark, n.ID, n.Date, n.Title, n.UpvoteCount)
	}
	return nil
}

// expire signs the client out after the server refused the cached session.
func (a *shell) expire(ctx context.Context) {
	if err := a.session.Expire(ctx); err != nil {
		a.logger.WithError(err).Warn("clear expired session")
	}
	fmt.Fprintln(a.out, "session expired, signed out")
}

func (a *shell) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// password reads without echo on a terminal and falls back to a plain line
// when stdin is piped.
func (a *shell) password() (string, error) {
	if !stdinIsTerminal() {
		return a.prompt("Password")
	}
	fmt.Fprint(a.out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func noticeArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s needs a notice id", args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid notice id %q", args[1])
	}
	return id, nil
}
