// Package main is the Comparsa terminal client. Each subcommand drives one of
// the synchronizers the same way the web views do, including the confirmation
// prompts before destructive calls.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nosa-terra/comparsa-client/config"
	"github.com/nosa-terra/comparsa-client/internal/admin"
	"github.com/nosa-terra/comparsa-client/internal/announcements"
	"github.com/nosa-terra/comparsa-client/internal/events"
	"github.com/nosa-terra/comparsa-client/internal/feed"
	"github.com/nosa-terra/comparsa-client/internal/profile"
	"github.com/nosa-terra/comparsa-client/internal/session"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

const usage = `usage: comparsa <command> [flags]

session:
  login -email E -password P      log in and store the credential
  register -name N -email E -password P
  logout                          drop the stored credential
  whoami                          show the resolved session user

feed:
  feed [-category C]              list posts (with likes and comment counts)
  post -content TEXT [-image URL] [-category C]
  delete-post -id ID
  like -id POST
  comments -id POST               show a post's thread
  comment -post POST -content TEXT
  delete-comment -post POST -id COMMENT
  upcoming                        next five events

announcements:
  announcements                   list the board
  announce -title T -content TEXT [-category C]
  delete-announcement -id ID

events:
  events                          list the calendar
  event -id ID                    show one event with its roster
  attend -id EVENT -status attending|maybe|not_attending
  create-event -title T -location L -start RFC3339 -end RFC3339 [...]
  delete-event -id ID

profile:
  profile [-id USER]              view a profile
  edit-profile [-name ...] [-bio ...] [...]

admin:
  stats                           aggregate counts
  users                           full user roster
  set-role -id USER -role member|admin
  delete-user -id USER
`

type app struct {
	ctx      context.Context
	session  *session.Manager
	feed     *feed.Synchronizer
	threads  *feed.Threads
	board    *announcements.Synchronizer
	calendar *events.Synchronizer
	panel    *admin.Synchronizer
	profile  *profile.Synchronizer
	stdin    *bufio.Reader
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if os.Getenv("COMPARSA_DEBUG") != "" {
		logger, _ = zap.NewDevelopment()
	}

	api := rest.NewClient(cfg.Client.APIBaseURL,
		rest.WithTimeout(time.Duration(cfg.Client.TimeoutSec)*time.Second),
		rest.WithLogger(logger),
	)
	store := session.NewFileStore(cfg.Client.TokenPath)
	sess := session.NewManager(api, store, logger)

	a := &app{
		ctx:      context.Background(),
		session:  sess,
		feed:     feed.New(api, logger),
		threads:  feed.NewThreads(api, sess, logger),
		board:    announcements.New(api, logger),
		calendar: events.New(api, logger),
		panel:    admin.New(api, sess, logger),
		profile:  profile.New(api, sess, logger),
		stdin:    bufio.NewReader(os.Stdin),
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	// Everything except the auth commands needs a resolved session.
	switch cmd {
	case "login", "register", "logout":
	default:
		if _, err := sess.Resolve(a.ctx); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		if sess.CurrentUser() == nil {
			fmt.Fprintln(os.Stderr, "not logged in; run: comparsa login")
			os.Exit(1)
		}
	}

	if err := a.run(cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// confirm asks before a destructive call, like the views' confirm dialogs.
func (a *app) confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, _ := a.stdin.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func formatTime(t time.Time) string {
	return t.Local().Format("Mon 02 Jan 2006 15:04")
}
