// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exception

const BadRequestBody = "10"
const BadRequestBodyMsg = "Failed to decode body"

const IncorrectParamType = "11"
const IncorrectParamTypeMsg = "$param parameter should be $type"

const InvalidParameterValue = "12"
const InvalidParameterValueMsg = "Value '$value' is not allowed for parameter $param"

const InvalidLimitMsg = "Value '$value' is not allowed for limit, maximum is $maxLimit"

const RequiredParamsMissing = "13"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const InsufficientPrivileges = "20"
const InsufficientPrivilegesMsg = "You don't have enough privileges to perform this operation"

const NotCurrentAssignee = "21"
const NotCurrentAssigneeMsg = "User $user is not the current assignee of destruction list $list"

const IncorrectAssigneeRole = "22"
const IncorrectAssigneeRoleMsg = "User $user does not hold the $role role on destruction list $list"

const DestructionListNotFound = "30"
const DestructionListNotFoundMsg = "Destruction list $list not found"

const DestructionListItemNotFound = "31"
const DestructionListItemNotFoundMsg = "Destruction list item $item not found"

const ReviewNotFound = "32"
const ReviewNotFoundMsg = "Review $review not found"

const DuplicateZaakInList = "33"
const DuplicateZaakInListMsg = "Zaak $zaak is already part of destruction list $list"

const InvalidListStatus = "40"
const InvalidListStatusMsg = "Operation $action is not allowed while destruction list has status $status"

const InvalidStatusTransition = "41"
const InvalidStatusTransitionMsg = "Destruction list cannot go from status $from via action $action"

const ReviewItemsRequired = "42"
const ReviewItemsRequiredMsg = "A rejected review must contain at least one item review"

const ReviewItemsNotAllowed = "43"
const ReviewItemsNotAllowedMsg = "An accepted review cannot contain item reviews"

const ItemNotInList = "44"
const ItemNotInListMsg = "Zaak $zaak does not belong to destruction list $list"

const ReviewResponseIncomplete = "45"
const ReviewResponseIncompleteMsg = "A response is required for every item review of the last review, $missing are missing"

const CoReviewNotAllowed = "46"
const CoReviewNotAllowedMsg = "A co-review can only be submitted while the destruction list is in review"

const ArchivistRequired = "47"
const ArchivistRequiredMsg = "An archivist assignee is required to mark the list as final"

const DestructionNotAllowed = "50"
const DestructionNotAllowedMsg = "Destruction of list $list cannot start: $reason"

const ServiceNotConfigured = "51"
const ServiceNotConfiguredMsg = "Upstream services are not correctly configured: $details"

const PlannedDestructionDateNotReached = "52"
const PlannedDestructionDateNotReachedMsg = "Destruction of list $list is planned for $date"
