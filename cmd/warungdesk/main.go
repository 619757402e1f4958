// Command warungdesk is the terminal front end of the dashboard: session
// management, the three synchronized collections, financial reports and the
// AI idea generator.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warungdesk/warungdesk/internal/app"
	"github.com/warungdesk/warungdesk/internal/config"
)

const usage = `usage: warungdesk <command> [flags]

session:
  register   -name -email -password    create an account and sign in
  login      -email -password          sign in
  logout                               sign out
  whoami                               show the signed-in identity

collections (require a session):
  products   list | add | update | delete
  customers  list | add | update | delete
  tx         list | sale | expense

views:
  dashboard                            quick stats
  report                               income / expense / net profit

tools:
  ideas      "<business domain>"       AI product & service ideas
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if config.ParseBool("WARUNGDESK_VERBOSE", false) {
		log.SetLevel(logrus.DebugLevel)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	if os.Args[1] == "ideas" {
		// Ideas need no session or collections.
		runIdeas(ctx, cfg, log, os.Args[2:])
		return
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		fatal(err)
	}

	switch os.Args[1] {
	case "register":
		runRegister(ctx, a, os.Args[2:])
	case "login":
		runLogin(ctx, a, os.Args[2:])
	case "logout":
		if err := a.Logout(); err != nil {
			fatal(err)
		}
		fmt.Println("signed out")
	case "whoami":
		runWhoami(a)
	case "products":
		requireSession(a)
		runProducts(ctx, a, os.Args[2:])
	case "customers":
		requireSession(a)
		runCustomers(ctx, a, os.Args[2:])
	case "tx":
		requireSession(a)
		runTransactions(ctx, a, os.Args[2:])
	case "dashboard":
		requireSession(a)
		runDashboard(a)
	case "report":
		requireSession(a)
		runReport(a)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func requireSession(a *app.App) {
	if !a.SignedIn() {
		fmt.Fprintln(os.Stderr, "not signed in; run: warungdesk login -email ... -password ...")
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
