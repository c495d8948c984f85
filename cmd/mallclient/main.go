package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/api"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/cart"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/config"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/session"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/transport"
)

// consoleNavigator is the terminal stand-in for the view layer's
// redirect to the login screen.
type consoleNavigator struct{}

func (consoleNavigator) ToLogin() {
	fmt.Println("logged out - use 'login <email> <password>' to sign in")
}

func main() {
	cfg := config.Load()

	storage, err := session.OpenSQLite(cfg.SessionDB)
	if err != nil {
		log.Fatalf("Failed to open session storage: %v", err)
	}
	defer storage.Close()

	sessions, err := session.NewStore(storage, consoleNavigator{})
	if err != nil {
		log.Fatalf("Failed to restore session: %v", err)
	}

	client := transport.NewClient(cfg.BaseURL, sessions, cfg.HTTPTimeout)
	authAPI := api.NewAuthClient(client)
	cartAPI := api.NewCartClient(client)
	catalogAPI := api.NewCatalogClient(client)
	userAPI := api.NewUserClient(client)

	cache := cart.NewCache(cartAPI, sessions)
	cache.Subscribe(func(s cart.Snapshot) {
		if s.State == cart.StateReady {
			fmt.Printf("[cart] %d items, %.2f total\n", s.ItemCount, s.Total)
		}
	})

	ctx := context.Background()
	if sessions.Authenticated() {
		if _, role := sessions.Current(); role != "" {
			fmt.Printf("restored %s session\n", role)
		}
		if err := cache.Refresh(ctx); err != nil {
			log.Printf("initial cart refresh failed: %v", err)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("mallclient - commands: login register products cart add update remove clear checkout me logout quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		if err := dispatch(ctx, cmd, args, sessions, cache, authAPI, catalogAPI, userAPI); err != nil {
			fmt.Printf("error: %v\n", err)
			if transport.IsKind(err, transport.KindAuthentication) {
				// Documented choice: an auth failure is surfaced, not
				// auto-cleared; the user decides whether to log out.
				fmt.Println("session rejected by server - 'logout' to clear it")
			}
		}
	}
}

func dispatch(
	ctx context.Context,
	cmd string,
	args []string,
	sessions *session.Store,
	cache *cart.Cache,
	authAPI *api.AuthClient,
	catalogAPI *api.CatalogClient,
	userAPI *api.UserClient,
) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		token, role, err := authAPI.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if err := sessions.Establish(token, role); err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", role)
		return cache.Refresh(ctx)

	case "register":
		if len(args) < 3 {
			return fmt.Errorf("usage: register <email> <password> <full name...> [CUSTOMER|VENDOR]")
		}
		role := domain.RoleCustomer
		nameArgs := args[2:]
		if last, ok := domain.ParseRole(nameArgs[len(nameArgs)-1]); ok && last != domain.RoleAdmin {
			role = last
			nameArgs = nameArgs[:len(nameArgs)-1]
		}
		token, err := authAPI.Register(ctx, api.RegisterRequest{
			Email:    args[0],
			Password: args[1],
			FullName: strings.Join(nameArgs, " "),
			Role:     role,
		})
		if err != nil {
			return err
		}
		if err := sessions.Establish(token, role); err != nil {
			return err
		}
		fmt.Printf("registered as %s\n", role)
		return cache.Refresh(ctx)

	case "products":
		products, err := catalogAPI.ListProducts(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%4d  %-30s %8.2f\n", p.ID, p.Name, p.Price)
		}
		return nil

	case "cart":
		if err := requireSession(sessions); err != nil {
			return err
		}
		snap := cache.Snapshot()
		fmt.Printf("state=%s items=%d total=%.2f\n", snap.State, snap.ItemCount, snap.Total)
		if snap.LastError != nil {
			fmt.Printf("last error: %v\n", snap.LastError)
		}
		return cache.Refresh(ctx)

	case "add":
		if err := requireSession(sessions); err != nil {
			return err
		}
		productID, quantity, err := idAndQuantity(args, 1)
		if err != nil {
			return fmt.Errorf("usage: add <product-id> [quantity]: %w", err)
		}
		return cache.Add(ctx, productID, quantity)

	case "update":
		if err := requireSession(sessions); err != nil {
			return err
		}
		if len(args) != 2 {
			return fmt.Errorf("usage: update <item-id> <quantity>")
		}
		itemID, quantity, err := idAndQuantity(args, 0)
		if err != nil {
			return err
		}
		return cache.Update(ctx, itemID, quantity)

	case "remove":
		if err := requireSession(sessions); err != nil {
			return err
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: remove <item-id>")
		}
		itemID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		return cache.Remove(ctx, itemID)

	case "clear":
		if err := requireSession(sessions); err != nil {
			return err
		}
		return cache.Clear(ctx)

	case "checkout":
		if err := requireSession(sessions); err != nil {
			return err
		}
		return cache.Checkout(ctx, strings.Join(args, " "))

	case "me":
		if err := requireSession(sessions); err != nil {
			return err
		}
		profile, err := userAPI.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s active=%t\n", profile.FullName, profile.Email, profile.Role, profile.Active)
		return nil

	case "logout":
		sessions.Clear()
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireSession gates protected commands before they reach the
// transport; without a session they bounce to authentication instead.
func requireSession(sessions *session.Store) error {
	if !sessions.Authenticated() {
		return fmt.Errorf("not signed in - use 'login <email> <password>'")
	}
	return nil
}

func idAndQuantity(args []string, defaultQuantity int) (int64, int, error) {
	if len(args) == 0 {
		return 0, 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	quantity := defaultQuantity
	if len(args) > 1 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, err
		}
	}
	return id, quantity, nil
}
