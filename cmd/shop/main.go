// Command shop is an interactive terminal client for the product store. It
// keeps its cart and login state in Redis so a session survives restarts.
//
//	go run ./cmd/shop -api http://localhost:8080 -session alice
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shopeasy/product-store/internal/cart"
	"github.com/shopeasy/product-store/internal/infrastructure/config"
	redisdb "github.com/shopeasy/product-store/internal/infrastructure/db/redis"
	"github.com/shopeasy/product-store/pkg/logger"
	"github.com/shopeasy/product-store/pkg/storeclient"
)

type shop struct {
	client  *storeclient.Client
	session *cart.Session
	token   string
	confirm func() bool

	// catalog caches the last listing so items can be added by number.
	catalog []storeclient.Product
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the product store API")
	sessionID := flag.String("session", "default", "session namespace for persisted state")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx := context.Background()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	session := cart.NewSession(redisdb.NewKVStore(rdb, *sessionID), log)
	if err := session.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("session bootstrap failed")
	}

	scanner := bufio.NewScanner(os.Stdin)
	s := &shop{
		client:  storeclient.NewClient(*apiURL),
		session: session,
		confirm: func() bool {
			fmt.Print("empty the cart? [y/N] ")
			if !scanner.Scan() {
				return false
			}
			return strings.EqualFold(strings.TrimSpace(scanner.Text()), "y")
		},
	}

	if u := session.User(); u != nil {
		fmt.Printf("welcome back, %s\n", displayName(*u))
	}

	fmt.Println("type 'help' for commands")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		if err := s.run(ctx, line); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func (s *shop) run(ctx context.Context, line string) error {
	args := strings.Fields(line)
	cmd, args := args[0], args[1:]

	switch cmd {
	case "help":
		fmt.Println(`products [category]     list the catalog
signup <name> <email> <pass>
login <email> <pass>    sign in
logout                  sign out (cart is kept)
add <n>                 add catalog item n to the cart
rm <id>                 remove a product from the cart
qty <id> <n>            change a cart entry's quantity
cart                    show the cart with totals
clear                   empty the cart (asks for confirmation)
whoami                  show the signed-in user
sell <name> <price>     list a new product for sale
unlist <id>             remove one of your products
exit                    quit`)
		return nil

	case "products":
		filter := storeclient.ListFilter{}
		if len(args) > 0 {
			filter.Category = args[0]
		}
		products, err := s.client.ListProducts(ctx, filter)
		if err != nil {
			return err
		}
		s.catalog = products
		if len(products) == 0 {
			fmt.Println("no products")
			return nil
		}
		for i, p := range products {
			fmt.Printf("%2d. %-30s %8.2f  [%s]  %s\n", i+1, p.Name, p.Price, p.Category, p.ID)
		}
		return nil

	case "signup":
		if len(args) != 3 {
			return errors.New("usage: signup <name> <email> <password>")
		}
		if err := s.client.Register(ctx, args[0], args[1], args[2], ""); err != nil {
			return err
		}
		fmt.Println("account created, you can login now")
		return nil

	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <email> <password>")
		}
		token, err := s.client.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		s.token = token
		if err := s.session.Login(ctx, cart.Structured("", args[0], "")); err != nil {
			return err
		}
		fmt.Println("signed in as", args[0])
		return nil

	case "logout":
		s.token = ""
		if err := s.session.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil

	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(s.catalog) {
			return errors.New("run 'products' first and pick an item number")
		}
		if err := s.session.AddToCart(ctx, s.catalog[n-1]); err != nil {
			if errors.Is(err, cart.ErrLoginRequired) {
				return errors.New("please login first")
			}
			return err
		}
		fmt.Println("added", s.catalog[n-1].Name)
		return nil

	case "rm":
		if len(args) != 1 {
			return errors.New("usage: rm <id>")
		}
		return s.session.RemoveFromCart(ctx, args[0])

	case "qty":
		if len(args) != 2 {
			return errors.New("usage: qty <id> <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.New("quantity must be a number")
		}
		return s.session.SetQuantity(ctx, args[0], n)

	case "cart":
		items := s.session.Items()
		if len(items) == 0 {
			fmt.Println("cart is empty")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%3d x %-30s %8.2f  %s\n", item.Quantity, item.Product.Name, item.Product.Price, item.Product.ID)
		}
		fmt.Printf("items: %d  subtotal: %.2f  total incl. tax: %.2f\n",
			s.session.TotalItems(), s.session.Subtotal(), s.session.TotalWithTax())
		return nil

	case "clear":
		return s.session.Clear(ctx, s.confirm)

	case "sell":
		if len(args) != 2 {
			return errors.New("usage: sell <name> <price>")
		}
		if s.token == "" {
			return errors.New("please login first")
		}
		price, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return errors.New("price must be a number")
		}
		created, err := s.client.CreateProduct(ctx, s.token, storeclient.ProductInput{
			Name:  args[0],
			Price: price,
		})
		if err != nil {
			return err
		}
		fmt.Println("listed", created.Name, "as", created.ID)
		return nil

	case "unlist":
		if len(args) != 1 {
			return errors.New("usage: unlist <id>")
		}
		if s.token == "" {
			return errors.New("please login first")
		}
		if err := s.client.DeleteProduct(ctx, s.token, args[0]); err != nil {
			return err
		}
		fmt.Println("removed", args[0])
		return nil

	case "whoami":
		u := s.session.User()
		if u == nil {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Println(displayName(*u))
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func displayName(u cart.UserRecord) string {
	if u.Kind == cart.KindLegacy {
		return u.Raw
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
