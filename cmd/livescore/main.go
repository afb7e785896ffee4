// livescore - live sports tournament scoring server and tools
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sportsfest/livescore/internal/api"
	"github.com/sportsfest/livescore/internal/auth"
	"github.com/sportsfest/livescore/internal/broadcast"
	"github.com/sportsfest/livescore/internal/config"
	"github.com/sportsfest/livescore/internal/engine"
	"github.com/sportsfest/livescore/internal/scoring"
	"github.com/sportsfest/livescore/internal/storage"
)

var version = "dev"

const defaultConfigPath = "/etc/livescore/config.yml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "status":
		cmdStatus(os.Args[2:])
	case "matches":
		cmdMatches(os.Args[2:])
	case "departments":
		cmdDepartments(os.Args[2:])
	case "user":
		cmdUser(os.Args[2:])
	case "version":
		fmt.Printf("livescore %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: livescore <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                               Start the scoring server")
	fmt.Println("  status                              Show live matches")
	fmt.Println("  matches [--recent N] [--sport S]    Show matches (default: 20)")
	fmt.Println("  departments                         List departments")
	fmt.Println("  user add [--admin] <username>       Add a user (prompts for password)")
	fmt.Println("  user remove <username>              Remove a user")
	fmt.Println("  user list                           List all users")
	fmt.Println("  user reset <username>               Reset a user's password")
	fmt.Println("  user admin <username>               Toggle admin status for a user")
	fmt.Println("  version                             Show version")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --config <path>    Path to configuration file (default /etc/livescore/config.yml)")
	fmt.Println("  --url <url>        Base URL of the livescore server (default: derived from config)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  livescore serve --config /etc/livescore/config.yml")
	fmt.Println("  livescore matches --recent 50 --sport CRICKET")
	fmt.Println("  livescore user add --admin scorer1")
}

// cmdServe starts the scoring server
func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	// Determine config path
	cfgPath := *configPath
	if cfgPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			cfgPath = defaultConfigPath
		} else {
			log.Fatalf("No config file found at %s. Use --config to specify a config file.", defaultConfigPath)
		}
	}

	// Load configuration
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Livescore %s starting...", version)

	// Initialize storage
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	log.Printf("Database initialized at %s", cfg.Database.Path)

	// Start the embedded broadcast bus
	bus, err := broadcast.New(broadcast.Options{
		ListenAddr: cfg.Broadcast.ListenAddr,
		Port:       cfg.Broadcast.Port,
	})
	if err != nil {
		log.Fatalf("Failed to start broadcast bus: %v", err)
	}
	defer bus.Close()
	if url := bus.ClientURL(); url != "" {
		log.Printf("Broadcast bus accepting external clients on %s", url)
	} else {
		log.Printf("Broadcast bus running in-process")
	}

	// Wire the scoring coordinator to the rule engines
	engines := engine.NewRegistry(time.Now)
	coord := scoring.New(store, bus, engines, nil)

	// Create auth service
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	if cfg.Auth.JWTSecret == "" {
		log.Printf("Warning: No JWT secret configured. Auth tokens will use an empty secret.")
	}

	// Create HTTP router
	router := api.NewRouter(store, coord, bus, authService, cfg.Server.StaticDir)
	router.StartWebSocketHub()
	if cfg.Server.StaticDir != "" {
		log.Printf("Serving static files from %s", cfg.Server.StaticDir)
	}

	// Start HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.ListenAddr, cfg.Server.HTTPPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start HTTP server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for signal or error
	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-serverErr:
		log.Fatalf("HTTP server error: %v", err)
	}

	// Sequential shutdown
	log.Println("Shutting down HTTP server...")
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := server.Shutdown(httpCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// CLI helper variables
var (
	baseURL = "http://localhost:8080"
	dbPath  string
)

// loadCLIConfigFromFlags loads config using pre-parsed flag values
func loadCLIConfigFromFlags(configPath, url string) *config.Config {
	// Load config file
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config from %s: %v\n", configPath, err)
		dbPath = "/var/lib/livescore/livescore.db"
		// Use explicit --url flag or default
		if url != "" {
			baseURL = url
		}
		return nil
	}

	dbPath = cfg.Database.Path
	// Derive URL from config, but allow --url flag to override
	if url != "" {
		baseURL = url
	} else {
		baseURL = fmt.Sprintf("http://%s:%d", cfg.Server.ListenAddr, cfg.Server.HTTPPort)
	}
	return cfg
}

func loadCLIConfig(args []string) (*config.Config, []string) {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	url := fs.String("url", "", "base URL of the livescore server")
	fs.Parse(args)

	cfg := loadCLIConfigFromFlags(*configPath, *url)
	return cfg, fs.Args()
}

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	url := fs.String("url", "", "base URL of the livescore server")
	fs.Parse(args)

	loadCLIConfigFromFlags(*configPath, *url)

	var matches []map[string]interface{}
	if err := getJSON("/api/matches?status=LIVE", &matches); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(matches) == 0 {
		fmt.Println("No live matches")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPORT\tTEAMS\tVENUE\tUPDATED")
	fmt.Fprintln(w, "--\t-----\t-----\t-----\t-------")

	for _, match := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s vs %s\t%s\t%s\n",
			shortID(match["id"]), str(match["sport"]),
			str(match["team_a"]), str(match["team_b"]),
			str(match["venue"]), formatTime(str(match["updated_at"])))
	}

	w.Flush()
}

func cmdMatches(args []string) {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	url := fs.String("url", "", "base URL of the livescore server")
	limit := fs.Int("recent", 20, "number of recent matches to show")
	sport := fs.String("sport", "", "filter by sport")
	fs.Parse(args)

	loadCLIConfigFromFlags(*configPath, *url)

	path := fmt.Sprintf("/api/matches?limit=%d", *limit)
	if *sport != "" {
		path += "&sport=" + strings.ToUpper(*sport)
	}

	var matches []map[string]interface{}
	if err := getJSON(path, &matches); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPORT\tTEAMS\tSTATUS\tWINNER\tSCHEDULED")
	fmt.Fprintln(w, "--\t-----\t-----\t------\t------\t---------")

	for _, match := range matches {
		winner := "-"
		if wn := str(match["winner"]); wn != "" {
			winner = wn
		}
		fmt.Fprintf(w, "%s\t%s\t%s vs %s\t%s\t%s\t%s\n",
			shortID(match["id"]), str(match["sport"]),
			str(match["team_a"]), str(match["team_b"]),
			str(match["status"]), winner, formatTime(str(match["scheduled_at"])))
	}

	w.Flush()
}

func cmdDepartments(args []string) {
	fs := flag.NewFlagSet("departments", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	url := fs.String("url", "", "base URL of the livescore server")
	fs.Parse(args)

	loadCLIConfigFromFlags(*configPath, *url)

	var departments []map[string]interface{}
	if err := getJSON("/api/departments", &departments); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR")
	fmt.Fprintln(w, "--\t----\t-----")

	for _, dept := range departments {
		color := "-"
		if c := str(dept["color"]); c != "" {
			color = c
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(dept["id"]), str(dept["name"]), color)
	}

	w.Flush()
}

// cmdUser handles user subcommands
func cmdUser(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: user subcommand required: add, remove, list, reset, admin\n")
		os.Exit(1)
	}

	// For user commands, we need config but also the subcommand
	subCmd := args[0]
	cfg, remaining := loadCLIConfig(args[1:])
	_ = cfg // cfg may be nil if config loading failed

	// Open database
	store, err := storage.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	switch subCmd {
	case "add":
		if err := cmdUserAdd(ctx, store, remaining); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "remove":
		if err := cmdUserRemove(ctx, store, remaining); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := cmdUserList(ctx, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "reset":
		if err := cmdUserReset(ctx, store, remaining); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "admin":
		if err := cmdUserAdmin(ctx, store, remaining); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown user command: %s (use: add, remove, list, reset, admin)\n", subCmd)
		os.Exit(1)
	}
}

func cmdUserAdd(ctx context.Context, store *storage.Store, args []string) error {
	fs := flag.NewFlagSet("user add", flag.ExitOnError)
	isAdmin := fs.Bool("admin", false, "create as admin user")
	fs.Parse(args)

	remaining := fs.Args()
	if len(remaining) < 1 {
		return fmt.Errorf("usage: livescore user add [--admin] <username>")
	}

	username := remaining[0]

	// Check if user already exists
	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		return fmt.Errorf("user '%s' already exists", username)
	}

	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := store.CreateUser(ctx, username, hash, *isAdmin); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	roleStr := "user"
	if *isAdmin {
		roleStr = "admin"
	}
	fmt.Printf("User '%s' created successfully (role: %s)\n", username, roleStr)
	return nil
}

func cmdUserRemove(ctx context.Context, store *storage.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: livescore user remove <username>")
	}
	username := args[0]

	if err := store.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}

	fmt.Printf("User '%s' removed\n", username)
	return nil
}

func cmdUserList(ctx context.Context, store *storage.Store) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tROLE\tPWD_CHANGE\tLAST_LOGIN")
	fmt.Fprintln(w, "--------\t----\t----------\t----------")

	for _, user := range users {
		role := "user"
		if user.IsAdmin {
			role = "admin"
		}
		pwdChange := "no"
		if user.PasswordChangeRequired {
			pwdChange = "yes"
		}
		lastLogin := "never"
		if user.LastLogin != nil {
			lastLogin = user.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.Username, role, pwdChange, lastLogin)
	}
	return w.Flush()
}

func cmdUserReset(ctx context.Context, store *storage.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: livescore user reset <username>")
	}
	username := args[0]

	user, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("user not found: %s", username)
	}

	fmt.Print("Enter new password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := store.ResetUserPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	fmt.Printf("Password reset for '%s' (user will be required to change it on next login)\n", username)
	return nil
}

func cmdUserAdmin(ctx context.Context, store *storage.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: livescore user admin <username>")
	}
	username := args[0]

	user, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("user not found: %s", username)
	}

	newAdminStatus := !user.IsAdmin
	if err := store.UpdateUserAdmin(ctx, user.ID, newAdminStatus); err != nil {
		return fmt.Errorf("failed to update admin status: %w", err)
	}

	if newAdminStatus {
		fmt.Printf("User '%s' is now an admin\n", username)
	} else {
		fmt.Printf("User '%s' is no longer an admin\n", username)
	}
	return nil
}

func getJSON(path string, target interface{}) error {
	url := baseURL + path
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func formatTime(isoTime string) string {
	// Simple formatting - just show time portion
	if idx := strings.Index(isoTime, "T"); idx != -1 {
		time := isoTime[idx+1:]
		if dotIdx := strings.Index(time, "."); dotIdx != -1 {
			time = time[:dotIdx]
		}
		if zIdx := strings.Index(time, "Z"); zIdx != -1 {
			time = time[:zIdx]
		}
		return time
	}
	return isoTime
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

// shortID truncates a UUID for table display
func shortID(v interface{}) string {
	s := str(v)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
