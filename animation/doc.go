// Package animation moves a selection across an animation window at a fixed
// tick period.
//
// NextStart holds the tick arithmetic. Driver owns the single pending tick of
// a control and hands out generations so a tick that raced with Stop can be
// recognised and dropped by the caller. Schedulers are injected: RealScheduler
// wraps time.AfterFunc and ManualScheduler fires ticks on demand in tests.
package animation
