package cache

import "strconv"

// Keys of the group read surfaces. Group rows only change through the admin CLI.
const GroupListKey = "groups:list"

// GroupKey returns the cache key of a single group
func GroupKey(id int64) string {
	return "groups:" + strconv.FormatInt(id, 10)
}
