// Command mongocheck verifies that MongoDB is reachable and configured for
// the helpdesk service. It checks the environment for MONGODB_URL, connects,
// pings, performs a scratch write/read round trip, cleans up after itself,
// and prints a summary. Exit code 0 means every check passed.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	var (
		uri     = pflag.String("uri", "", "MongoDB connection string (defaults to MONGODB_URL from the environment)")
		db      = pflag.String("db", "helpdesk_check", "scratch database used for the read/write probe (dropped afterwards)")
		envFile = pflag.String("env-file", ".env", "path to the .env file to load")
		timeout = pflag.Duration("timeout", 5*time.Second, "per-operation timeout")
	)
	pflag.Parse()

	fmt.Println("Helpdesk MongoDB setup checker")
	fmt.Println("==============================")

	envOK := checkEnv(*envFile, uri)
	mongoOK := checkMongo(*uri, *db, *timeout)

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("environment: %s\n", verdict(envOK))
	fmt.Printf("mongodb:     %s\n", verdict(mongoOK))

	if envOK && mongoOK {
		fmt.Println("\n✓ All checks passed.")
		return
	}
	fmt.Println("\n✗ Some checks failed. Please address the issues above.")
	os.Exit(1)
}

// checkEnv loads the env file (if present) and resolves the connection
// string: an explicit --uri wins, otherwise MONGODB_URL from the
// environment. It reports whether a usable URI was found.
func checkEnv(envFile string, uri *string) bool {
	if err := godotenv.Load(envFile); err == nil {
		fmt.Printf("✓ loaded %s\n", envFile)
	} else {
		fmt.Printf("- no %s file (using process environment)\n", envFile)
	}

	if *uri != "" {
		fmt.Println("✓ connection string supplied via --uri")
		return true
	}
	if v := os.Getenv("MONGODB_URL"); v != "" {
		*uri = v
		fmt.Println("✓ MONGODB_URL found in environment")
		return true
	}
	fmt.Println("✗ MONGODB_URL not set; create a .env file or pass --uri")
	return false
}

// checkMongo connects, pings, and performs a scratch write/read/cleanup
// cycle against a throwaway database.
func checkMongo(uri, scratchDB string, timeout time.Duration) bool {
	if uri == "" {
		fmt.Println("✗ skipping connection check: no connection string")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		fmt.Printf("✗ could not create client: %v\n", err)
		return false
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = client.Disconnect(c)
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		fmt.Printf("✗ could not connect: %v\n", err)
		fmt.Println("  Please ensure MongoDB is installed and running, or point")
		fmt.Println("  MONGODB_URL at a reachable instance (e.g. MongoDB Atlas).")
		return false
	}
	fmt.Println("✓ connection successful")

	// Scratch read/write round trip, then drop the throwaway database.
	col := client.Database(scratchDB).Collection("probe")
	wctx, wcancel := context.WithTimeout(context.Background(), timeout)
	defer wcancel()

	if _, err := col.InsertOne(wctx, bson.M{"probe": true}); err != nil {
		fmt.Printf("✗ write test failed: %v\n", err)
		return false
	}
	var doc bson.M
	if err := col.FindOne(wctx, bson.M{"probe": true}).Decode(&doc); err != nil {
		fmt.Printf("✗ read test failed: %v\n", err)
		return false
	}
	fmt.Println("✓ read/write test successful")

	if err := client.Database(scratchDB).Drop(wctx); err != nil {
		fmt.Printf("✗ cleanup failed: %v\n", err)
		return false
	}
	fmt.Println("✓ scratch database cleaned up")
	return true
}

func verdict(ok bool) string {
	if ok {
		return "✓ OK"
	}
	return "✗ FAILED"
}
