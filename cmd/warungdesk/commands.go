package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/warungdesk/warungdesk/internal/app"
	"github.com/warungdesk/warungdesk/internal/config"
	"github.com/warungdesk/warungdesk/internal/ideas"
	"github.com/warungdesk/warungdesk/internal/models"
	"github.com/warungdesk/warungdesk/internal/report"
)

func runRegister(ctx context.Context, a *app.App, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if err := a.Register(ctx, *name, *email, *password); err != nil {
		fatal(err)
	}
	fmt.Printf("welcome, %s\n", a.Session.User().Name)
}

func runLogin(ctx context.Context, a *app.App, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if err := a.Login(ctx, *email, *password); err != nil {
		fatal(err)
	}
	fmt.Printf("welcome back, %s\n", a.Session.User().Name)
}

func runWhoami(a *app.App) {
	user := a.Session.User()
	if user == nil {
		fmt.Println("not signed in")
		return
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
}

func runProducts(ctx context.Context, a *app.App, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		warnIfLoadFailed("products", a.Products.Err())
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY")
		for _, p := range a.Products.List() {
			fmt.Fprintf(w, "%d\t%s\t%.0f\t%s\n", p.ID, p.Name, p.Price, p.Category)
		}
		w.Flush()
	case "add":
		fs := flag.NewFlagSet("products add", flag.ExitOnError)
		name := fs.String("name", "", "product name")
		desc := fs.String("desc", "", "description")
		price := fs.Float64("price", 0, "unit price")
		image := fs.String("image", "", "image URL")
		category := fs.String("category", "", "category")
		fs.Parse(args[1:])
		created, err := a.Products.Add(ctx, models.NewProduct{
			Name: *name, Description: *desc, Price: *price, ImageURL: *image, Category: *category,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("created product %d: %s\n", created.ID, created.Name)
	case "update":
		fs := flag.NewFlagSet("products update", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		name := fs.String("name", "", "product name")
		desc := fs.String("desc", "", "description")
		price := fs.Float64("price", 0, "unit price")
		image := fs.String("image", "", "image URL")
		category := fs.String("category", "", "category")
		fs.Parse(args[1:])
		current, ok := a.Products.Find(*id)
		if !ok {
			fatal(fmt.Errorf("no product with id %d", *id))
		}
		// Unset flags keep the current value; the PUT is still a full replace.
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if set["name"] {
			current.Name = *name
		}
		if set["desc"] {
			current.Description = *desc
		}
		if set["price"] {
			current.Price = *price
		}
		if set["image"] {
			current.ImageURL = *image
		}
		if set["category"] {
			current.Category = *category
		}
		updated, err := a.Products.Update(ctx, current)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("updated product %d\n", updated.ID)
	case "delete":
		fs := flag.NewFlagSet("products delete", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		fs.Parse(args[1:])
		if err := a.Products.Delete(ctx, *id); err != nil {
			fatal(err)
		}
		fmt.Printf("deleted product %d\n", *id)
	default:
		fatal(fmt.Errorf("unknown products subcommand %q", args[0]))
	}
}

func runCustomers(ctx context.Context, a *app.App, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		warnIfLoadFailed("customers", a.Customers.Err())
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tMEMBER SINCE")
		for _, c := range a.Customers.List() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.MemberSince)
		}
		w.Flush()
	case "add":
		fs := flag.NewFlagSet("customers add", flag.ExitOnError)
		name := fs.String("name", "", "customer name")
		email := fs.String("email", "", "email address")
		phone := fs.String("phone", "", "phone number")
		fs.Parse(args[1:])
		created, err := a.Customers.Add(ctx, models.NewCustomer{Name: *name, Email: *email, Phone: *phone})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("created customer %d: %s (member since %s)\n", created.ID, created.Name, created.MemberSince)
	case "update":
		fs := flag.NewFlagSet("customers update", flag.ExitOnError)
		id := fs.Int("id", 0, "customer id")
		name := fs.String("name", "", "customer name")
		email := fs.String("email", "", "email address")
		phone := fs.String("phone", "", "phone number")
		fs.Parse(args[1:])
		current, ok := a.Customers.Find(*id)
		if !ok {
			fatal(fmt.Errorf("no customer with id %d", *id))
		}
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if set["name"] {
			current.Name = *name
		}
		if set["email"] {
			current.Email = *email
		}
		if set["phone"] {
			current.Phone = *phone
		}
		updated, err := a.Customers.Update(ctx, current)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("updated customer %d\n", updated.ID)
	case "delete":
		fs := flag.NewFlagSet("customers delete", flag.ExitOnError)
		id := fs.Int("id", 0, "customer id")
		fs.Parse(args[1:])
		if err := a.Customers.Delete(ctx, *id); err != nil {
			fatal(err)
		}
		fmt.Printf("deleted customer %d\n", *id)
	default:
		fatal(fmt.Errorf("unknown customers subcommand %q", args[0]))
	}
}

func runTransactions(ctx context.Context, a *app.App, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		warnIfLoadFailed("transactions", a.Transactions.Err())
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tDATE\tAMOUNT\tDESCRIPTION")
		for _, t := range a.Transactions.List() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%s\n", t.ID, t.Type, t.Date, t.Amount, t.Description)
		}
		w.Flush()
	case "sale":
		fs := flag.NewFlagSet("tx sale", flag.ExitOnError)
		productID := fs.Int("product", 0, "product id")
		customerID := fs.Int("customer", 0, "customer id")
		qty := fs.Int("qty", 1, "quantity")
		date := fs.String("date", app.Today(), "date (YYYY-MM-DD)")
		fs.Parse(args[1:])
		input, err := a.BuildSale(*productID, *customerID, *qty, *date)
		if err != nil {
			fatal(err)
		}
		created, err := a.Transactions.Add(ctx, input)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("recorded sale %d: %s (%.0f)\n", created.ID, created.Description, created.Amount)
	case "expense":
		fs := flag.NewFlagSet("tx expense", flag.ExitOnError)
		desc := fs.String("desc", "", "what the money went to")
		amount := fs.Float64("amount", 0, "amount spent")
		date := fs.String("date", app.Today(), "date (YYYY-MM-DD)")
		fs.Parse(args[1:])
		input, err := a.BuildExpense(*desc, *amount, *date)
		if err != nil {
			fatal(err)
		}
		created, err := a.Transactions.Add(ctx, input)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("recorded expense %d: %s (%.0f)\n", created.ID, created.Description, created.Amount)
	default:
		fatal(fmt.Errorf("unknown tx subcommand %q", args[0]))
	}
}

func runDashboard(a *app.App) {
	stats := report.Dashboard(a.Products.List(), a.Customers.List(), a.Transactions.List())
	fmt.Printf("Welcome back, %s!\n\n", a.Session.User().Name)
	fmt.Printf("Total products:   %d\n", stats.TotalProducts)
	fmt.Printf("Total customers:  %d\n", stats.TotalCustomers)
	fmt.Printf("Total sales:      Rp %.0f\n", stats.TotalSales)
}

func runReport(a *app.App) {
	s := report.Summarize(a.Transactions.List())
	fmt.Println("Financial Report")
	fmt.Printf("  Total income:   Rp %.0f\n", s.TotalIncome)
	fmt.Printf("  Total expense:  Rp %.0f\n", s.TotalExpense)
	fmt.Printf("  Net profit:     Rp %.0f\n", s.NetProfit)
}

func runIdeas(ctx context.Context, cfg config.Config, log *logrus.Logger, args []string) {
	if len(args) == 0 || args[0] == "" {
		fatal(fmt.Errorf("usage: warungdesk ideas \"<business domain>\""))
	}
	client := ideas.New(ideas.Config{APIKey: cfg.GeminiAPIKey, Logger: log})
	result, err := client.Generate(ctx, args[0])
	if err != nil {
		fatal(err)
	}
	for i, idea := range result {
		fmt.Printf("%d. %s\n   %s\n", i+1, idea.Title, idea.Description)
	}
}

func warnIfLoadFailed(name string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s may be incomplete: %v\n", name, err)
	}
}
