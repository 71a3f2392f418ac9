package redis

// CommandSet is a set of Redis command names, lowercased as they appear after
// the `cmdstat_` prefix in INFO commandstats.
type CommandSet map[string]struct{}

// NewCommandSet builds a set from a list of command names
func NewCommandSet(cmds ...string) CommandSet {
	out := make(CommandSet, len(cmds))
	for _, c := range cmds {
		out[c] = struct{}{}
	}
	return out
}

// Contains reports whether cmd is in the set
func (s CommandSet) Contains(cmd string) bool {
	_, ok := s[cmd]
	return ok
}

// CommandGroups maps a command family name to the commands it is made of.  A
// command may belong to more than one family.
type CommandGroups map[string]CommandSet

var stringCommands = []string{
	"append", "bitcount", "bitop", "bitpos", "decr", "decrby", "get", "getbit",
	"getrange", "getset", "incr", "incrby", "incrbyfloat", "mget", "mset",
	"msetnx", "psetnx", "set", "setbit", "setex", "setnx", "setrange", "strlen",
}

var hashCommands = []string{
	"hdel", "hexists", "hget", "hgetall", "hincrby", "hincrbyfloat", "hkeys",
	"hlen", "hmget", "hmset", "hset", "hsetnx", "hvals", "hscan",
}

var listCommands = []string{
	"blpop", "brpop", "brpoplpush", "lindex", "linsert", "llen", "lpop", "lpush",
	"lpushx", "lrange", "lrem", "lset", "ltrim", "rpop", "rpoplpush", "rpush",
	"rpushx",
}

var setCommands = []string{
	"sadd", "scard", "sdiff", "sdiffstore", "sinter", "sinterstore", "sismember",
	"smembers", "smove", "spop", "srandmember", "srem", "sunion", "sunionstore",
	"sscan",
}

var sortedSetCommands = []string{
	"zadd", "zcard", "zcount", "zincrby", "zinterstore", "zlexcount", "zrange",
	"zrangebylex", "zrangebyscore", "zrank", "zrem", "zremrangebylex",
	"zremrangebyrank", "zremrangebyscore", "zrevrange", "zrevrangebyscore",
	"zrevrank", "zscore", "zunionstore", "zscan",
}

var hyperLogLogCommands = []string{"pfadd", "pfcount", "pfmerge"}

var scriptCommands = []string{"eval", "evalsha"}

// keyBasedCommands is not a plain union of the type families: it leaves out
// hscan, brpoplpush, rpoplpush and smove, and adds the generic key commands.
var keyBasedCommands = []string{
	"zdel", "dump", "exists", "expire", "expireat", "keys", "move", "persist",
	"pexpire", "pexpireat", "pttl", "rename", "renamenx", "restore", "ttl",
	"type", "append", "bitcount", "bitop", "bitpos", "decr", "decrby", "get",
	"getbit", "getrange", "getset", "incr", "incrby", "incrbyfloat", "mget",
	"mset", "msetnx", "psetnx", "set", "setbit", "setex", "setnx", "setrange",
	"strlen", "hdel", "hexists", "hget", "hgetall", "hincrby", "hincrbyfloat",
	"hkeys", "hlen", "hmget", "hmset", "hset", "hsetnx", "hvals", "blpop",
	"brpop", "lindex", "linsert", "llen", "lpop", "lpush", "lpushx", "lrange",
	"lrem", "lset", "ltrim", "rpop", "rpush", "rpushx", "sadd", "scard", "sdiff",
	"sdiffstore", "sinter", "sinterstore", "sismember", "smembers", "spop",
	"srandmember", "srem", "sunion", "sunionstore", "sscan", "zadd", "zcard",
	"zcount", "zincrby", "zinterstore", "zlexcount", "zrange", "zrangebylex",
	"zrangebyscore", "zrank", "zrem", "zremrangebylex", "zremrangebyrank",
	"zremrangebyscore", "zrevrange", "zrevrangebyscore", "zrevrank", "zscore",
	"zunionstore", "zscan", "pfadd", "pfcount", "pfmerge", "watch", "eval",
	"evalsha",
}

var defaultCommandGroups = CommandGroups{
	"GetTypeCmds": NewCommandSet("get", "getbit", "getrange", "getset", "mget",
		"hget", "hgetall", "hmget"),
	"SetTypeCmds": NewCommandSet("set", "setbit", "setex", "setnx", "setrange",
		"mset", "msetnx", "psetnx", "hmset", "hset", "hsetnx", "lset"),
	"KeyBasedCmds":         NewCommandSet(keyBasedCommands...),
	"StringBasedCmds":      NewCommandSet(stringCommands...),
	"HashBasedCmds":        NewCommandSet(hashCommands...),
	"ListBasedCmds":        NewCommandSet(listCommands...),
	"SetBasedCmds":         NewCommandSet(setCommands...),
	"SortedSetBasedCmds":   NewCommandSet(sortedSetCommands...),
	"HyperLogLogBasedCmds": NewCommandSet(hyperLogLogCommands...),
	"ScriptBasedCmds":      NewCommandSet(scriptCommands...),
}

// DefaultCommandGroups returns the built-in command family table.  The
// returned value is shared and must not be modified.
func DefaultCommandGroups() CommandGroups {
	return defaultCommandGroups
}

// passThrough maps INFO fields to the metric name they are published under in
// the Count batch.
var passThrough = []struct {
	field  string
	metric string
}{
	{"connected_clients", "CurrConnections"},
	{"evicted_keys", "Evictions"},
	{"expired_keys", "Reclaimed"},
	{"keyspace_hits", "CacheHits"},
	{"keyspace_misses", "CacheMisses"},
	{"used_memory", "UsedMemory"},
	{"instantaneous_ops_per_sec", "IOPS"},
	{"instantaneous_input_kbps", "InputKbps"},
	{"instantaneous_output_kbps", "OutputKbps"},
}

const (
	currItemsMetric         = "CurrItems"
	bytesUsedForCacheMetric = "BytesUsedForCache"
	usedMemoryField         = "used_memory"
	commandStatPrefix       = "cmdstat_"
	callsField              = "calls"
	keysField               = "keys"
)
