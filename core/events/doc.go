// Package events defines the typed event contract consumed by the turn
// controller.
//
// Every input to the controller, whether it comes from the user, the capture
// device, the scheduler, the answer client or the playback device, is turned
// into one of these events and applied by a single transition function.
//
// Event kinds are grouped by namespace:
//
//   - conversation.*
//   - user_input.*
//   - scheduler.*
//   - answer.*
//   - assistant_playback.*
//
// conversation events
//
//   - ConversationStartRequested (conversation.start_requested): voice mode
//     was switched on.
//   - ConversationStopRequested (conversation.stop_requested): voice mode was
//     switched off or the owner is tearing down.
//
// user_input events
//
//   - UserTranscriptUpdated (user_input.transcript_updated): mutable snapshot
//     of the live, growing transcript.
//   - UserTextSubmitted (user_input.text_submitted): typed entry submitted.
//
// scheduler events
//
//   - SchedulerTick (scheduler.tick): periodic tick carrying the current time.
//     Quiet-period and settle deadlines are only evaluated on ticks.
//
// answer events
//
//   - AnswerReady (answer.ready): an answer was produced for a turn.
//   - AnswerFailed (answer.failed): the answer fetch failed for a turn.
//
// assistant_playback events
//
//   - AssistantPlaybackStarted (assistant_playback.started): speech job became
//     audible.
//   - AssistantPlaybackEnded (assistant_playback.ended): speech job finished
//     naturally.
//   - AssistantPlaybackFailed (assistant_playback.failed): speech job failed.
package events
