package plist_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sr-murthy/plistkit/plist"
)

func TestValueKinds(t *testing.T) {
	require.Equal(t, plist.KindNull, plist.Null().Kind())
	require.Equal(t, plist.KindBool, plist.Bool(true).Kind())
	require.Equal(t, plist.KindInteger, plist.Int(1).Kind())
	require.Equal(t, plist.KindReal, plist.Real(1).Kind())
	require.Equal(t, plist.KindDate, plist.Date(time.Now()).Kind())
	require.Equal(t, plist.KindData, plist.Data(nil).Kind())
	require.Equal(t, plist.KindString, plist.String("").Kind())
	require.Equal(t, plist.KindUID, plist.UID(0).Kind())
	require.Equal(t, plist.KindArray, plist.Array().Kind())
	require.Equal(t, plist.KindDictionary, plist.Dict().Kind())
}

func TestDictInsertionOrder(t *testing.T) {
	d := plist.Dict()
	d.Set("z", plist.Int(1))
	d.Set("a", plist.Int(2))
	d.Set("m", plist.Int(3))
	d.Set("a", plist.Int(4)) // overwrite keeps position

	require.Equal(t, []string{"z", "a", "m"}, d.Keys())
	v, ok := d.Get("a")
	require.True(t, ok)
	require.Equal(t, int64(4), v.Int())

	_, ok = d.Get("missing")
	require.False(t, ok)
}

func TestDataConstructorCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	v := plist.Data(src)
	src[0] = 99
	require.Equal(t, []byte{1, 2, 3}, v.Bytes())
}

func TestValueCopyIsDeep(t *testing.T) {
	orig := launchAgent()
	clone := orig.Copy()
	require.True(t, orig.Equal(clone))

	args, _ := clone.Get("ProgramArguments")
	args.Append(plist.String("--extra"))

	origArgs, _ := orig.Get("ProgramArguments")
	require.Equal(t, 3, origArgs.Len())
	require.Equal(t, 4, args.Len())
}

func TestValueEqual(t *testing.T) {
	require.True(t, plist.Int(3).Equal(plist.Int(3)))
	require.False(t, plist.Int(3).Equal(plist.Int(4)))

	// Numeric equality across kinds is still inequality.
	require.False(t, plist.Int(3).Equal(plist.Real(3.0)))
	require.False(t, plist.Int(1).Equal(plist.UID(1)))

	// Arrays are ordered, dictionaries are not.
	require.False(t, plist.Array(plist.Int(1), plist.Int(2)).Equal(plist.Array(plist.Int(2), plist.Int(1))))

	a := plist.Dict()
	a.Set("x", plist.Int(1))
	a.Set("y", plist.Int(2))
	b := plist.Dict()
	b.Set("y", plist.Int(2))
	b.Set("x", plist.Int(1))
	require.True(t, a.Equal(b))
}

func TestValueAccessorsOnWrongKind(t *testing.T) {
	// Accessors on the wrong kind return zero values rather than panic.
	s := plist.String("hi")
	require.Equal(t, int64(0), s.Int())
	require.Equal(t, 0, s.Len())
	require.Nil(t, s.At(0))
	require.Nil(t, s.Keys())
}

func TestValueString(t *testing.T) {
	require.Equal(t, "true", plist.Bool(true).String())
	require.Equal(t, `"hi"`, plist.String("hi").String())
	require.Equal(t, "<nil>", (*plist.Value)(nil).String())
}
