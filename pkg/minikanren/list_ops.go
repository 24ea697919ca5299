package minikanren

// Appendo creates a goal that relates front, back and out such that out is
// front followed by back. It works in every direction: given front and back
// it computes out, and given out it enumerates every split.
//
// Example:
//
//	// All ways to split (1 2 3)
//	Run2(0, func(x, y Value[LList[int]]) Goal {
//	    return Appendo(x, y, ListOf(1, 2, 3))
//	})
func Appendo[T any](front, back, out Value[LList[T]]) Goal {
	return Any(
		All(Unify(front, Nil[T]()), Unify(back, out)),
		With3(func(head Value[T], rest, res Value[LList[T]]) Goal {
			return All(
				Unify(front, Cons(head, rest)),
				Unify(out, Cons(head, res)),
				Lazy(func() Goal { return Appendo(rest, back, res) }),
			)
		}),
	)
}

// Membero creates a goal that succeeds once for every position at which x
// occurs in list.
func Membero[T any](x Value[T], list Value[LList[T]]) Goal {
	return Any(
		With1(func(rest Value[LList[T]]) Goal {
			return Unify(list, Cons(x, rest))
		}),
		With2(func(head Value[T], rest Value[LList[T]]) Goal {
			return All(
				Unify(list, Cons(head, rest)),
				Lazy(func() Goal { return Membero(x, rest) }),
			)
		}),
	)
}

// Rembero relates an element to input and output lists, where output is
// input with the first occurrence of the element removed. Elements before
// the removed one must be known to differ from it.
//
// Example:
//
//	// Remove 2 from (1 2 3): output is (1 3)
//	Rembero(Bound(2), ListOf(1, 2, 3), output)
func Rembero[T any](x Value[T], input, output Value[LList[T]]) Goal {
	return Any(
		With1(func(rest Value[LList[T]]) Goal {
			return All(
				Unify(input, Cons(x, rest)),
				Unify(output, rest),
			)
		}),
		With3(func(head Value[T], tail, res Value[LList[T]]) Goal {
			return All(
				Unify(input, Cons(head, tail)),
				Unify(output, Cons(head, res)),
				Not(Unify(head, x)),
				Lazy(func() Goal { return Rembero(x, tail, res) }),
			)
		}),
	)
}

// SameLengtho creates a goal that succeeds if two lists have the same
// length. It bounds the search of relations such as Reverso that would
// otherwise generate ever longer lists.
func SameLengtho[A, B any](xs Value[LList[A]], ys Value[LList[B]]) Goal {
	return Any(
		All(Unify(xs, Nil[A]()), Unify(ys, Nil[B]())),
		With2(func(xsTail Value[LList[A]], ysTail Value[LList[B]]) Goal {
			return All(
				Unify(xs, Cons(Unbound[A](), xsTail)),
				Unify(ys, Cons(Unbound[B](), ysTail)),
				Lazy(func() Goal { return SameLengtho(xsTail, ysTail) }),
			)
		}),
	)
}

// reverso relates a list to its reverse without bounding the length.
func reverso[T any](list, reversed Value[LList[T]]) Goal {
	return Any(
		All(Unify(list, Nil[T]()), Unify(reversed, Nil[T]())),
		With3(func(head Value[T], tail, tailReversed Value[LList[T]]) Goal {
			return All(
				Unify(list, Cons(head, tail)),
				Lazy(func() Goal { return reverso(tail, tailReversed) }),
				Appendo(tailReversed, Cons(head, Nil[T]()), reversed),
			)
		}),
	)
}

// Reverso relates a list to its reverse. Either side may be the unknown.
func Reverso[T any](list, reversed Value[LList[T]]) Goal {
	return All(
		SameLengtho(list, reversed),
		reverso(list, reversed),
	)
}

// Lengtho relates a list to its length.
//
// Example:
//
//	Run(1, func(n Value[int]) Goal { return Lengtho(ListOf("a", "b"), n) }) // [2]
func Lengtho[T any](list Value[LList[T]], n Value[int]) Goal {
	return Any(
		All(Unify(list, Nil[T]()), Unify(n, Bound(0))),
		With2(func(tail Value[LList[T]], m Value[int]) Goal {
			return All(
				Unify(list, Cons(Unbound[T](), tail)),
				Assert(n, func(n int) bool { return n > 0 }),
				Map1(m, n,
					func(m int) int { return m + 1 },
					func(n int) int { return n - 1 },
				),
				Lazy(func() Goal { return Lengtho(tail, m) }),
			)
		}),
	)
}
