package common

import (
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 returns a cluster-safe int64 identifier.
// The node id can be fixed via CRM_NODE_ID when running multiple instances.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		nodeID := int64(rand.New(rand.NewSource(time.Now().UnixNano())).Intn(1023))
		if v := os.Getenv("CRM_NODE_ID"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeID = id % 1024
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode.Generate().Int64()
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
