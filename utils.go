package eventive

import (
	"fmt"
	"reflect"

	"github.com/openbukkitutils/eventive/types"
)

// GetExecutorID calculate executor func's address as id
func GetExecutorID(exec Executor) types.ExecutorID {
	return types.ExecutorID(GetFuncAddress(exec))
}

// GetFuncAddress get address of func
func GetFuncAddress(v interface{}) string {
	ele := reflect.ValueOf(v)
	if ele.Kind() != reflect.Func {
		panic("only accept func")
	}

	return fmt.Sprintf("%x", ele.Pointer())
}
