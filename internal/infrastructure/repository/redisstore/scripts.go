package redisstore

import "github.com/redis/go-redis/v9"

// tombstone marks a list slot for LREM; it cannot collide with a username or
// challenge id because both are non-empty printable strings.
const tombstone = "\x00removed\x00"

// KEYS: meta, pending  ARGV: expected version, value
var appendPendingScript = redis.NewScript(`
local version = redis.call('HGET', KEYS[1], 'version')
if not version or version ~= ARGV[1] then
  return 0
end
redis.call('RPUSH', KEYS[2], ARGV[2])
redis.call('HINCRBY', KEYS[1], 'version', 1)
return 1
`)

// KEYS: meta, pending, done, times
// ARGV: expected version, challenge id, pending index, completed at, tombstone
var completeChallengeScript = redis.NewScript(`
local version = redis.call('HGET', KEYS[1], 'version')
if not version or version ~= ARGV[1] then
  return 0
end
local idx = tonumber(ARGV[3])
if redis.call('LINDEX', KEYS[2], idx) ~= ARGV[2] then
  return 0
end
redis.call('LSET', KEYS[2], idx, ARGV[5])
redis.call('LREM', KEYS[2], 1, ARGV[5])
redis.call('RPUSH', KEYS[3], ARGV[2])
redis.call('HSETNX', KEYS[4], ARGV[2], ARGV[4])
redis.call('HINCRBY', KEYS[1], 'version', 1)
return 1
`)

// KEYS: meta, pending, members  ARGV: expected version, username, pending index, tombstone
var admitMemberScript = redis.NewScript(`
local version = redis.call('HGET', KEYS[1], 'version')
if not version or version ~= ARGV[1] then
  return 0
end
local idx = tonumber(ARGV[3])
if redis.call('LINDEX', KEYS[2], idx) ~= ARGV[2] then
  return 0
end
redis.call('LSET', KEYS[2], idx, ARGV[4])
redis.call('LREM', KEYS[2], 1, ARGV[4])
redis.call('RPUSH', KEYS[3], ARGV[2])
redis.call('HINCRBY', KEYS[1], 'version', 1)
return 1
`)

// upsertScript replaces a record's meta fields and lists in one step.
// KEYS: meta, list keys..., optional hash key last
// ARGV[1]: JSON payload {"meta":{...},"lists":[[...],...],"hash":{...},"version":"n"}
var upsertScript = redis.NewScript(`
local payload = cjson.decode(ARGV[1])
local exists = redis.call('EXISTS', KEYS[1])
for i = 2, #KEYS do
  redis.call('DEL', KEYS[i])
end
for field, value in pairs(payload.meta) do
  redis.call('HSET', KEYS[1], field, value)
end
if exists == 1 then
  redis.call('HINCRBY', KEYS[1], 'version', 1)
else
  redis.call('HSET', KEYS[1], 'version', payload.version)
end
for i, items in ipairs(payload.lists) do
  for _, item in ipairs(items) do
    redis.call('RPUSH', KEYS[i + 1], item)
  end
end
local hashKey = KEYS[#payload.lists + 2]
if hashKey then
  for field, value in pairs(payload.hash) do
    redis.call('HSET', hashKey, field, value)
  end
end
return 1
`)

type upsertPayload struct {
	Meta    map[string]string `json:"meta"`
	Lists   [][]string        `json:"lists"`
	Hash    map[string]string `json:"hash"`
	Version string            `json:"version"`
}

func listOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
