package main

import (
	"Influence/internal/api/config"
	"Influence/internal/pkg/security"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"strings"
)

// 为运维签发访问令牌，账号体系在外部系统中，这里只负责按配置的密钥签名
func main() {
	userID := flag.Uint64("user", 0, "user id")
	roles := flag.String("roles", "", "comma separated roles, e.g. admin,subscribed")
	flag.Parse()

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "usage: token -user <id> [-roles admin,subscribed]")
		os.Exit(2)
	}

	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		os.Exit(1)
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, err := security.GenerateToken(*userID, roleList)
	if err != nil {
		log.Error("failed to generate token", "err", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
