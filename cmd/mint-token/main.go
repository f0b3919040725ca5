package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"jokerhigh-server/internal/jwt"
	"jokerhigh-server/pkg/account"
)

var playerID = flag.Int64("id", 0, "mint a token for an existing player instead of creating one")
var balance = flag.Int("balance", 10000, "starting balance for a new player")

func main() {
	flag.Parse()
	jwt.LoadPrivateKey()

	player, err := getPlayer()
	if err != nil {
		logrus.WithError(err).Fatal("could not get player")
	}

	signed, err := jwt.Sign(player.ID)
	if err != nil {
		logrus.WithError(err).Fatal("could not sign token")
	}

	fmt.Printf("Player:  %d (%s)\n", player.ID, player.DisplayName)
	fmt.Printf("Balance: %d\n", player.Balance)
	fmt.Printf("Token:   %s\n", signed)
}

func getPlayer() (*account.Player, error) {
	if *playerID > 0 {
		return account.GetPlayerByID(context.Background(), *playerID)
	}

	name, err := getInput("Display name")
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, fmt.Errorf("display name is required")
	}

	return account.CreatePlayer(context.Background(), name, *balance)
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(str, "\r\n"), nil
}
