// Package consts internal constants shared by bridge backends
package consts

// RedisKeyQueue prefix of per-event queue keys in redis
const RedisKeyQueue = "queue/"
